package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minjpark/litscreen/internal/model"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "right", "l", "n":
		m.session.Next()
		m.optCursor = 0
		return m, nil
	case "left", "h", "b":
		m.session.Prev()
		m.optCursor = 0
		return m, nil

	case "tab":
		m.category = nextCategory(m.category)
		m.optCursor = 0
		return m, nil

	case "up", "k":
		if m.optCursor > 0 {
			m.optCursor--
		}
		return m, nil
	case "down", "j":
		if m.optCursor < len(m.session.Options(m.category))-1 {
			m.optCursor++
		}
		return m, nil

	case " ":
		opts := m.session.Options(m.category)
		if m.optCursor >= 0 && m.optCursor < len(opts) {
			m.session.Toggle(m.category, opts[m.optCursor])
			m.saved = false
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx, _ := strconv.Atoi(msg.String())
		opts := m.session.Options(m.category)
		if idx >= 1 && idx <= len(opts) {
			m.session.Toggle(m.category, opts[idx-1])
			m.saved = false
		}
		return m, nil

	case "enter":
		m.session.ApplyDecision()
		m.saved = false
		m.status = "decision applied"
		return m, nil

	case "i":
		m.session.ForceInclude()
		m.saved = false
		return m, nil
	case "x":
		m.session.ForceExclude()
		m.saved = false
		return m, nil
	case "r":
		m.session.Reset()
		m.saved = false
		m.status = "record reset"
		return m, nil

	case "p":
		m.precise = !m.precise
		if m.precise {
			m.status = "precise word boundaries on"
		} else {
			m.status = "precise word boundaries off"
		}
		return m, nil

	case "s":
		saved, err := m.save()
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		saved.status = fmt.Sprintf("saved %s", m.outPath)
		return saved, nil
	}

	return m, nil
}

func nextCategory(cat model.Category) model.Category {
	cats := model.Categories()
	for i, c := range cats {
		if c == cat {
			return cats[(i+1)%len(cats)]
		}
	}
	return cats[0]
}
