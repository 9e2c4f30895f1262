package review

import (
	"testing"
	"time"

	"github.com/minjpark/litscreen/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}

func sessionRecords() []model.Record {
	return []model.Record{
		{
			Title:    "Mobile App for Depression",
			Abstract: "A smartphone application for behavioral activation.",
			RuleKeywords: model.Findings{
				model.CategoryDepression: {"depression"},
				model.CategoryMobile:     {"mobile", "app"},
				model.CategoryBehavioral: {"behavioral activation"},
			},
			RuleVerdict: model.VerdictInclude,
			Final:       model.VerdictInclude,
			Human:       model.NewHumanReview(),
		},
		{
			Title:       "A Study of Exercise",
			Abstract:    "Exercise improves mood.",
			RuleVerdict: model.VerdictExclude,
			Final:       model.VerdictExclude,
			Human:       model.NewHumanReview(),
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(sessionRecords(), "tester")
	s.now = fixedNow
	return s
}

func TestSession_SeedsSelectionsFromFindings(t *testing.T) {
	s := newTestSession(t)

	if !s.Selected(model.CategoryDepression, "depression") {
		t.Errorf("Expected rule finding pre-selected")
	}
	if !s.Selected(model.CategoryMobile, "app") {
		t.Errorf("Expected rule finding pre-selected")
	}
	if s.Selected(model.CategoryMobile, "smartphone") {
		t.Errorf("Unmatched keyword should not be pre-selected")
	}
}

func TestSession_ApplyDecision_Include(t *testing.T) {
	s := newTestSession(t)

	s.ApplyDecision()
	rec := s.Current()

	if rec.Human.Verdict != model.VerdictInclude {
		t.Errorf("Expected include with all categories selected, got %s", rec.Human.Verdict)
	}
	if rec.Human.Status != model.StatusCompleted {
		t.Errorf("Expected status completed, got %s", rec.Human.Status)
	}
	if rec.Human.Reviewer != "tester" {
		t.Errorf("Expected reviewer stamped, got %q", rec.Human.Reviewer)
	}
	if rec.Human.Date != "2026-03-14 15:09:26" {
		t.Errorf("Unexpected date stamp: %q", rec.Human.Date)
	}
	// Sorted, comma-joined storage form
	if rec.Human.Keywords[model.CategoryMobile] != "app, mobile" {
		t.Errorf("Expected sorted joined keywords, got %q", rec.Human.Keywords[model.CategoryMobile])
	}
	if s.Cursor != 0 {
		t.Errorf("ApplyDecision must not move the cursor")
	}
}

func TestSession_ApplyDecision_ExcludeWhenCategoryEmpty(t *testing.T) {
	s := newTestSession(t)

	s.Toggle(model.CategoryDepression, "depression") // deselect the only term
	s.ApplyDecision()

	rec := s.Current()
	if rec.Human.Verdict != model.VerdictExclude {
		t.Errorf("Expected exclude with an empty category, got %s", rec.Human.Verdict)
	}
	if rec.Human.Keywords[model.CategoryDepression] != "" {
		t.Errorf("Expected empty depression keywords, got %q", rec.Human.Keywords[model.CategoryDepression])
	}
}

func TestSession_ForceInclude(t *testing.T) {
	s := newTestSession(t)

	s.ForceInclude()

	rec := &s.Records[0]
	if rec.Human.Verdict != model.VerdictInclude || rec.Human.Status != model.StatusInclude {
		t.Errorf("Unexpected human layer: %+v", rec.Human)
	}
	for cat, want := range map[model.Category]string{
		model.CategoryDepression: "depression",
		model.CategoryMobile:     "mobile",
		model.CategoryBehavioral: "behavioral activation",
	} {
		if rec.Human.Keywords[cat] != want {
			t.Errorf("Expected canonical %s keyword %q, got %q", cat, want, rec.Human.Keywords[cat])
		}
	}
	if s.Cursor != 1 {
		t.Errorf("ForceInclude must advance the cursor, got %d", s.Cursor)
	}
}

func TestSession_ForceExclude(t *testing.T) {
	s := newTestSession(t)

	s.ForceExclude()

	rec := &s.Records[0]
	if rec.Human.Verdict != model.VerdictExclude || rec.Human.Status != model.StatusExclude {
		t.Errorf("Unexpected human layer: %+v", rec.Human)
	}
	for _, cat := range model.Categories() {
		if rec.Human.Keywords[cat] != "" {
			t.Errorf("Expected cleared %s keywords, got %q", cat, rec.Human.Keywords[cat])
		}
	}
	if s.Cursor != 1 {
		t.Errorf("ForceExclude must advance the cursor, got %d", s.Cursor)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(t)

	s.ApplyDecision()
	s.Reset()

	rec := s.Current()
	if rec.Human.Status != model.StatusNotReviewed {
		t.Errorf("Expected not reviewed after reset, got %s", rec.Human.Status)
	}
	if rec.Human.Verdict != "" || rec.Human.Date != "" {
		t.Errorf("Expected cleared human fields, got %+v", rec.Human)
	}
	// Rule findings survive a reset
	if rec.RuleVerdict != model.VerdictInclude {
		t.Errorf("Reset must not touch rule fields")
	}
	if s.Cursor != 0 {
		t.Errorf("Reset must not move the cursor")
	}
}

func TestSession_HumanNeverFeedsFinal(t *testing.T) {
	s := newTestSession(t)

	s.ForceExclude()
	if s.Records[0].Final != model.VerdictInclude {
		t.Errorf("Human decision must not overwrite final verdict, got %s", s.Records[0].Final)
	}
}

func TestSession_Navigation(t *testing.T) {
	s := newTestSession(t)

	s.Prev()
	if s.Cursor != 0 {
		t.Errorf("Prev at first record must clamp, got %d", s.Cursor)
	}
	s.Next()
	if s.Cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", s.Cursor)
	}
	s.Next()
	if s.Cursor != 1 {
		t.Errorf("Next at last record must clamp, got %d", s.Cursor)
	}
	s.Goto(99)
	if s.Cursor != 1 {
		t.Errorf("Goto past end must clamp, got %d", s.Cursor)
	}
	s.Goto(-5)
	if s.Cursor != 0 {
		t.Errorf("Goto before start must clamp, got %d", s.Cursor)
	}
}

func TestSession_SelectionsReloadOnNavigation(t *testing.T) {
	s := newTestSession(t)

	s.Toggle(model.CategoryDepression, "dysthymia")
	s.Next()
	if s.Selected(model.CategoryDepression, "dysthymia") {
		t.Errorf("Selections must reload per record")
	}
	s.Prev()
	// Record 0 was not reviewed, so selections reseed from findings
	if !s.Selected(model.CategoryDepression, "depression") {
		t.Errorf("Expected findings reseeded after navigating back")
	}
}

func TestSession_Progress(t *testing.T) {
	s := newTestSession(t)

	reviewed, total := s.Progress()
	if reviewed != 0 || total != 2 {
		t.Errorf("Expected 0/2, got %d/%d", reviewed, total)
	}
	s.ForceInclude()
	reviewed, _ = s.Progress()
	if reviewed != 1 {
		t.Errorf("Expected 1 reviewed, got %d", reviewed)
	}
}

func TestSession_ApplyDecision_KeepsDisplayCasing(t *testing.T) {
	records := sessionRecords()
	records[0].LLM.Keywords = model.Findings{
		model.CategoryBehavioral: {"Behavioural Therapy"},
	}
	s := NewSession(records, "tester")
	s.now = fixedNow

	s.ApplyDecision()

	rec := s.Current()
	got := rec.Human.Keywords[model.CategoryBehavioral]
	if got != "Behavioural Therapy, behavioral activation" {
		t.Errorf("Expected committed keywords in display casing, got %q", got)
	}
}

func TestSession_OptionsIncludeExtraFindings(t *testing.T) {
	records := sessionRecords()
	records[0].LLM.Keywords = model.Findings{
		model.CategoryDepression: {"low mood"},
	}
	s := NewSession(records, "tester")

	found := false
	for _, opt := range s.Options(model.CategoryDepression) {
		if opt == "low mood" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected LLM finding offered as an option, got %v", s.Options(model.CategoryDepression))
	}
}
