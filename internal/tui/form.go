package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/field"
)

const (
	formFieldName = iota
	formFieldPhone
	formFieldBirthday
	formFieldCount
)

// formModel collects a new contact: name, an optional first phone and an
// optional birthday.
type formModel struct {
	inputs [formFieldCount]textinput.Model
	focus  int
	flash  string
}

// saveRecordMsg carries a validated new record to the root model.
type saveRecordMsg struct {
	record *book.Record
}

func newFormModel() formModel {
	var m formModel

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 32
		m.inputs[i] = ti
	}

	m.inputs[formFieldName].Placeholder = "name"
	m.inputs[formFieldPhone].Placeholder = "phone (10 digits, optional)"
	m.inputs[formFieldBirthday].Placeholder = field.DateLayout + " (optional)"
	m.inputs[formFieldName].Focus()

	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyBack) {
			return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
		}

		if key.Matches(msg, zstyle.KeyTab) || msg.Type == tea.KeyDown {
			return m.cycleFocus(1), nil
		}

		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			return m.cycleFocus(-1), nil
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			if m.focus < formFieldCount-1 {
				return m.cycleFocus(1), nil
			}
			return m.submit()
		}

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m formModel) cycleFocus(dir int) formModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + formFieldCount) % formFieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m formModel) submit() (formModel, tea.Cmd) {
	name := m.inputs[formFieldName].Value()
	phone := m.inputs[formFieldPhone].Value()
	birthday := m.inputs[formFieldBirthday].Value()

	r, err := book.NewRecord(name, birthday)
	if err != nil {
		m.flash = err.Error()
		return m, clearFlashAfter()
	}

	if phone != "" {
		if err := r.AddPhone(phone); err != nil {
			m.flash = err.Error()
			return m, clearFlashAfter()
		}
	}

	return m, func() tea.Msg { return saveRecordMsg{record: r} }
}

func (m formModel) View() string {
	s := fmt.Sprintf("\n  %s\n\n", zstyle.Title.Render("new contact"))

	labels := [formFieldCount]string{"name", "phone", "birthday"}
	for i, in := range m.inputs {
		s += fmt.Sprintf("  %-10s %s\n", zstyle.Subtitle.Render(labels[i]), in.View())
	}

	if m.flash != "" {
		s += "\n  " + zstyle.StatusErr.Render(m.flash) + "\n"
	} else {
		s += "\n\n"
	}

	s += "  " + zstyle.MutedText.Render("tab next field  enter save  esc cancel") + "\n"
	return s
}
