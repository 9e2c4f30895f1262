package screen

import (
	"reflect"
	"testing"

	"github.com/minjpark/litscreen/internal/model"
)

// Texts that trigger exactly one category each.
const (
	depText = "Patients with depression."
	mobText = "A smartphone was provided."
	behText = "Behavioral activation was delivered."
)

func TestEvaluator_AllCombinations(t *testing.T) {
	e := NewEvaluator()

	cases := []struct {
		name     string
		abstract string
		want     model.Verdict
	}{
		{"none", "Exercise improves mood.", model.VerdictExclude},
		{"depression only", depText, model.VerdictExclude},
		{"mobile only", mobText, model.VerdictExclude},
		{"behavioral only", behText, model.VerdictExclude},
		{"depression+mobile", depText + " " + mobText, model.VerdictExclude},
		{"depression+behavioral", depText + " " + behText, model.VerdictExclude},
		{"mobile+behavioral", mobText + " " + behText, model.VerdictExclude},
		{"all three", depText + " " + mobText + " " + behText, model.VerdictInclude},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Evaluate("", tc.abstract)
			if res.Verdict != tc.want {
				t.Errorf("Expected %s, got %s (keywords: %v)", tc.want, res.Verdict, res.Keywords)
			}
		})
	}
}

func TestEvaluator_IncludeRequiresAllCategories(t *testing.T) {
	e := NewEvaluator()

	res := e.Evaluate("Mobile App for Depression",
		"A smartphone application for behavioral activation therapy in adults with depressive symptoms.")

	if res.Verdict != model.VerdictInclude {
		t.Fatalf("Expected include, got %s", res.Verdict)
	}

	dep := res.Keywords[model.CategoryDepression]
	if !reflect.DeepEqual(dep, []string{"depression", "depressive symptoms"}) {
		t.Errorf("Unexpected depression keywords: %v", dep)
	}

	mob := res.Keywords[model.CategoryMobile]
	want := []string{"smartphone application", "mobile", "smartphone", "app"}
	if !reflect.DeepEqual(mob, want) {
		t.Errorf("Expected mobile keywords %v, got %v", want, mob)
	}

	// "behavio* therap*" does not span the intervening word "activation",
	// so only the literal phrase matches
	beh := res.Keywords[model.CategoryBehavioral]
	if !reflect.DeepEqual(beh, []string{"behavioral activation"}) {
		t.Errorf("Unexpected behavioral keywords: %v", beh)
	}
}

func TestEvaluator_ExcludesUnrelatedRecord(t *testing.T) {
	e := NewEvaluator()

	res := e.Evaluate("A Study of Exercise", "Exercise improves mood.")
	if res.Verdict != model.VerdictExclude {
		t.Errorf("Expected exclude, got %s", res.Verdict)
	}
	for _, cat := range model.Categories() {
		if len(res.Keywords[cat]) != 0 {
			t.Errorf("Expected no %s keywords, got %v", cat, res.Keywords[cat])
		}
	}
}

func TestEvaluator_Deterministic(t *testing.T) {
	e := NewEvaluator()
	title := "Digital therapeutics for depressive disorder"
	abstract := "An mHealth activity scheduling intervention."

	first := e.Evaluate(title, abstract)
	for i := 0; i < 10; i++ {
		again := e.Evaluate(title, abstract)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Evaluate is not deterministic: %v vs %v", first, again)
		}
	}
}

func TestEvaluator_TitleAbstractBoundary(t *testing.T) {
	e := NewEvaluator()

	// The phrase split across title and abstract is joined by a space
	// and matches as a phrase
	res := e.Evaluate("Treating depressive", "symptoms with apps.")
	dep := res.Keywords[model.CategoryDepression]
	found := false
	for _, term := range dep {
		if term == "depressive symptoms" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'depressive symptoms' across the joined boundary, got %v", dep)
	}
}

func TestEvaluator_EmptyInputs(t *testing.T) {
	e := NewEvaluator()

	res := e.Evaluate("", "")
	if res.Verdict != model.VerdictExclude {
		t.Errorf("Expected exclude for empty record, got %s", res.Verdict)
	}
}
