package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zbook/internal/book"
)

// searchModel filters the book live as the user types.
type searchModel struct {
	book    *book.AddressBook
	input   textinput.Model
	results []*book.Record
	cursor  int
}

func newSearchModel(b *book.AddressBook) searchModel {
	ti := textinput.New()
	ti.Placeholder = "name or digits"
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()

	return searchModel{
		book:  b,
		input: ti,
	}
}

func (m searchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// letters feed the input, so result navigation is arrows only
		switch msg.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return navigateMsg{view: viewMenu} }

		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case tea.KeyDown:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case tea.KeyEnter:
			if len(m.results) == 0 {
				return m, nil
			}
			r := m.results[m.cursor]
			return m, func() tea.Msg { return viewRecordMsg{record: r} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if q := m.input.Value(); q == "" {
		m.results = nil
		m.cursor = 0
	} else {
		m.results = m.book.Search(q)
		if m.cursor >= len(m.results) {
			m.cursor = 0
		}
	}
	return m, cmd
}

func (m searchModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	s := fmt.Sprintf("\n  %s\n\n", zstyle.Title.Render("search"))
	s += "  " + m.input.View() + "\n\n"

	if m.input.Value() != "" && len(m.results) == 0 {
		s += "  " + zstyle.MutedText.Render("no matches") + "\n"
	}

	for i, r := range m.results {
		line := fmt.Sprintf("%-24s %s", truncate(r.Name(), 24), phoneSummary(r))
		if i == m.cursor {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n  " + zstyle.MutedText.Render("type to filter  ↑/↓ navigate  enter view  esc back") + "\n"
	return s
}
