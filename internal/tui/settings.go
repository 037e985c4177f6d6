package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/config"
)

// settingsModel edits the persisted settings.
type settingsModel struct {
	cfg   config.Settings
	input textinput.Model
	flash string
}

// saveSettingsMsg carries validated settings to the root model.
type saveSettingsMsg struct {
	settings config.Settings
}

func newSettingsModel(cfg config.Settings) settingsModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(book.DefaultPageSize)
	ti.CharLimit = 4
	ti.Width = 8
	ti.SetValue(strconv.Itoa(cfg.EffectivePageSize()))
	ti.Focus()

	return settingsModel{
		cfg:   cfg,
		input: ti,
	}
}

func (m settingsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyBack) {
			return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
		}

		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m.submit()
		}

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m settingsModel) submit() (settingsModel, tea.Cmd) {
	size, err := strconv.Atoi(m.input.Value())
	if err != nil || size <= 0 {
		m.flash = book.ErrPageSize.Error()
		return m, clearFlashAfter()
	}

	cfg := m.cfg
	cfg.PageSize = size
	return m, func() tea.Msg { return saveSettingsMsg{settings: cfg} }
}

func (m settingsModel) View() string {
	s := fmt.Sprintf("\n  %s\n\n", zstyle.Title.Render("settings"))
	s += "  " + zstyle.Subtitle.Render("page size") + "  " + m.input.View() + "\n"
	s += "\n  " + zstyle.MutedText.Render("book file: "+m.cfg.EffectiveBookFile()) + "\n"

	if m.flash != "" {
		if m.flash == "saved" {
			s += "\n  " + zstyle.StatusOK.Render(m.flash) + "\n"
		} else {
			s += "\n  " + zstyle.StatusErr.Render(m.flash) + "\n"
		}
	} else {
		s += "\n\n"
	}

	s += "  " + zstyle.MutedText.Render("enter save  esc back") + "\n"
	return s
}
