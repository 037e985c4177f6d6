package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
)

// accentColor highlights cursors and selected rows across views.
var accentColor = lipgloss.Color("212")

type menuChoice int

const (
	menuBrowse menuChoice = iota
	menuAdd
	menuSearch
	menuSettings
	menuQuit
)

var menuItems = []string{
	"Browse contacts",
	"Add contact",
	"Search",
	"Settings",
	"Quit",
}

// menuModel is the main menu view.
type menuModel struct {
	cursor       int
	version      string
	contactCount int
}

func newMenuModel(version string) menuModel {
	return menuModel{version: version}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (menuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}

		if key.Matches(msg, zstyle.KeyUp) {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}

		if key.Matches(msg, zstyle.KeyDown) {
			if m.cursor < len(menuItems)-1 {
				m.cursor++
			}
			return m, nil
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			return m, m.selectItem()
		}
	}

	return m, nil
}

func (m menuModel) selectItem() tea.Cmd {
	switch menuChoice(m.cursor) {
	case menuBrowse:
		return func() tea.Msg { return navigateMsg{view: viewBrowse} }
	case menuAdd:
		return func() tea.Msg { return navigateMsg{view: viewForm} }
	case menuSearch:
		return func() tea.Msg { return navigateMsg{view: viewSearch} }
	case menuSettings:
		return func() tea.Msg { return navigateMsg{view: viewSettings} }
	case menuQuit:
		return tea.Quit
	}
	return nil
}

func (m menuModel) View() string {
	title := zstyle.Title.Render("zbook")
	ver := zstyle.MutedText.Render(m.version)

	s := fmt.Sprintf("\n  %s %s\n\n", title, ver)

	for i, item := range menuItems {
		if m.cursor == i {
			s += zstyle.Highlight.Render(fmt.Sprintf("    > %s", item)) + "\n"
		} else {
			s += fmt.Sprintf("      %s\n", item)
		}
	}

	s += "\n  " + zstyle.MutedText.Render(fmt.Sprintf("%d contact(s)", m.contactCount)) + "\n"
	s += "\n  " + zstyle.MutedText.Render("j/k navigate  enter select  q quit") + "\n\n"
	return s
}
