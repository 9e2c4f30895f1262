package tui

import (
	"fmt"
	"strings"

	"github.com/minjpark/litscreen/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	rec := m.session.Current()
	if rec == nil {
		return infoStyle.Render("No records to review. Press 'q' to quit.") + "\n"
	}

	var b strings.Builder

	reviewed, total := m.session.Progress()
	b.WriteString(titleStyle.Render(fmt.Sprintf("litscreen review  —  record %d/%d  —  %d reviewed",
		m.session.Cursor+1, total, reviewed)))
	b.WriteString("\n")

	// Record header
	b.WriteString(fmt.Sprintf("%s\n", rec.Title))
	meta := []string{}
	if rec.DOI != "" {
		meta = append(meta, rec.DOI)
	}
	if rec.Journal != "" {
		meta = append(meta, rec.Journal)
	}
	if rec.Year != "" {
		meta = append(meta, rec.Year)
	}
	if len(meta) > 0 {
		b.WriteString(infoStyle.Render(strings.Join(meta, "  ·  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Abstract with the current selections highlighted
	abstract := rec.Abstract
	if abstract == "" {
		abstract = "(no abstract)"
	} else {
		abstract = m.renderer().Render(abstract, m.selections(), markKeyword)
	}
	b.WriteString(abstractStyle.Width(m.width - 4).Render(abstract))
	b.WriteString("\n\n")

	// Verdict line
	b.WriteString(fmt.Sprintf("rule: %s   llm: %s   final: %s",
		verdictLabel(rec.RuleVerdict), verdictLabel(rec.LLM.Verdict), verdictLabel(rec.Final)))
	if rec.Human.Status.Reviewed() {
		b.WriteString(fmt.Sprintf("   human: %s (%s)", verdictLabel(rec.Human.Verdict), rec.Human.Status))
	}
	b.WriteString("\n")
	if rec.LLM.Reason != "" {
		b.WriteString(infoStyle.Render("llm reason: " + rec.LLM.Reason))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Category tabs
	var tabs []string
	for _, cat := range model.Categories() {
		label := fmt.Sprintf("%s (%d)", cat, len(m.session.SelectedKeywords(cat)))
		if cat == m.category {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	// Keyword toggles for the active category
	for i, opt := range m.session.Options(m.category) {
		cursor := "  "
		if i == m.optCursor {
			cursor = "› "
		}
		marker := "[ ]"
		if m.session.Selected(m.category, opt) {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s%2d %s %s", cursor, i+1, marker, opt)
		if marker == "[x]" {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Help and status
	b.WriteString(infoStyle.Render(
		"←/→ navigate · tab category · ↑/↓ keyword · space/1-9 toggle · enter apply · i include · x exclude · r reset · p boundaries · s save · q quit"))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("\n")
	}
	if !m.saved {
		b.WriteString(infoStyle.Render("unsaved changes"))
		b.WriteString("\n")
	}

	return b.String()
}
