// Package tui is the interactive review interface. It owns no decision
// logic: every state change goes through the review session, and
// highlighting goes through the highlight renderer.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minjpark/litscreen/internal/highlight"
	"github.com/minjpark/litscreen/internal/model"
	"github.com/minjpark/litscreen/internal/review"
	"github.com/minjpark/litscreen/internal/store"
)

// Model is the bubbletea state for one review run.
type Model struct {
	session   *review.Session
	outPath   string
	precise   bool
	category  model.Category // active keyword tab
	optCursor int            // highlighted row in the keyword list

	status string // transient message shown under the help line
	width  int

	saved bool // last write succeeded and nothing changed since
}

// NewModel creates the review model. precise is the initial word
// boundary mode for highlighting; the reviewer can toggle it at
// runtime.
func NewModel(session *review.Session, outPath string, precise bool) Model {
	return Model{
		session:  session,
		outPath:  outPath,
		precise:  precise,
		category: model.CategoryDepression,
		width:    100,
		saved:    true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// renderer returns a highlighter in the current boundary mode.
func (m Model) renderer() *highlight.Renderer {
	return highlight.NewRenderer(m.precise)
}

// selections returns the current record's chosen keywords per category,
// for highlighting.
func (m Model) selections() map[model.Category][]string {
	sel := map[model.Category][]string{}
	for _, cat := range model.Categories() {
		sel[cat] = m.session.SelectedKeywords(cat)
	}
	return sel
}

// save writes the reviewed batch back to the output file.
func (m Model) save() (Model, error) {
	if err := store.WriteReviewed(m.outPath, m.session.Records); err != nil {
		return m, err
	}
	m.saved = true
	return m, nil
}
