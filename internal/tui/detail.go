package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/field"
)

type detailMode int

const (
	detailView detailMode = iota
	detailAddPhone
	detailEditPhone
	detailBirthday
)

// detailModel shows one contact and edits its phones and birthday in
// place.
type detailModel struct {
	record *book.Record
	mode   detailMode
	cursor int
	input  textinput.Model
	flash  string
}

// recordChangedMsg tells the root model the record was mutated and the
// book needs saving.
type recordChangedMsg struct{}

func newDetailModel(r *book.Record) detailModel {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 24

	return detailModel{
		record: r,
		input:  ti,
	}
}

func (m detailModel) Init() tea.Cmd {
	return nil
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == detailView {
			return m.handleViewKey(msg)
		}
		return m.handleInputKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	if m.mode != detailView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m detailModel) handleViewKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewBrowse} }
	}

	phones := m.record.Phones()

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(phones)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		if len(phones) == 0 {
			return m, nil
		}
		return m.copyText(phones[m.cursor], "phone copied")
	}

	switch msg.String() {
	case "a":
		m.mode = detailAddPhone
		m.input.Placeholder = "10 digits"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "e":
		if len(phones) == 0 {
			return m, nil
		}
		m.mode = detailEditPhone
		m.input.Placeholder = "10 digits"
		m.input.SetValue(phones[m.cursor])
		m.input.Focus()
		return m, textinput.Blink

	case "x":
		if len(phones) == 0 {
			return m, nil
		}
		m.record.RemovePhone(phones[m.cursor])
		// removing duplicates can drop more than one entry
		if n := len(m.record.Phones()); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		return m, func() tea.Msg { return recordChangedMsg{} }

	case "b":
		m.mode = detailBirthday
		m.input.Placeholder = field.DateLayout
		m.input.SetValue("")
		if m.record.Birthday().IsSet() {
			m.input.SetValue(m.record.Birthday().String())
		}
		m.input.Focus()
		return m, textinput.Blink

	case "c":
		return m.copyText(m.record.String(), "contact copied")

	case "d":
		name := m.record.Name()
		return m, func() tea.Msg { return deleteRecordMsg{name: name} }
	}

	return m, nil
}

func (m detailModel) handleInputKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyBack) {
		m.mode = detailView
		m.input.Blur()
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m detailModel) submitInput() (detailModel, tea.Cmd) {
	val := m.input.Value()

	var err error
	switch m.mode {
	case detailAddPhone:
		err = m.record.AddPhone(val)
	case detailEditPhone:
		err = m.record.EditPhone(m.record.Phones()[m.cursor], val)
	case detailBirthday:
		err = m.record.SetBirthday(val)
	}

	if err != nil {
		m.flash = err.Error()
		return m, clearFlashAfter()
	}

	m.mode = detailView
	m.input.Blur()
	return m, func() tea.Msg { return recordChangedMsg{} }
}

func (m detailModel) copyText(text, ok string) (detailModel, tea.Cmd) {
	if err := copyToClipboard(text); err != nil {
		m.flash = "clipboard: " + err.Error()
	} else {
		m.flash = ok
	}
	return m, clearFlashAfter()
}

func (m detailModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	s := fmt.Sprintf("\n  %s\n\n", zstyle.Title.Render(m.record.Name()))

	bday := m.record.Birthday().String()
	s += "  " + zstyle.Subtitle.Render("birthday") + "  " + bday
	if days, err := m.record.DaysToBirthday(time.Now()); err == nil {
		s += " " + zstyle.MutedText.Render(fmt.Sprintf("(in %d day(s))", days))
	}
	s += "\n\n"

	s += "  " + zstyle.Subtitle.Render("phones") + "\n"
	phones := m.record.Phones()
	if len(phones) == 0 {
		s += "  " + zstyle.MutedText.Render("none") + "\n"
	}
	for i, p := range phones {
		if i == m.cursor && m.mode == detailView {
			s += "  " + accentStyle.Render("▸") + " " + p + "\n"
		} else {
			s += "    " + p + "\n"
		}
	}

	switch m.mode {
	case detailAddPhone:
		s += "\n  new phone: " + m.input.View() + "\n"
	case detailEditPhone:
		s += "\n  edit phone: " + m.input.View() + "\n"
	case detailBirthday:
		s += "\n  birthday: " + m.input.View() + "\n"
	}

	if m.flash != "" {
		s += "\n  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n\n"
	}

	if m.mode == detailView {
		s += "  " + zstyle.MutedText.Render("a add  e edit  x remove  b birthday  enter copy  c copy all  d delete  esc back") + "\n"
	} else {
		s += "  " + zstyle.MutedText.Render("enter save  esc cancel") + "\n"
	}
	return s
}
