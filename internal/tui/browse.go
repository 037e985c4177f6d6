package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"

	"github.com/zarlcorp/zbook/internal/book"
)

// browseModel pages through the address book.
type browseModel struct {
	pages    [][]*book.Record
	pageSize int
	page     int
	cursor   int
	flash    string
}

// viewRecordMsg requests viewing a specific contact.
type viewRecordMsg struct {
	record *book.Record
}

// deleteRecordMsg requests deleting a contact by name.
type deleteRecordMsg struct {
	name string
}

func newBrowseModel(b *book.AddressBook, pageSize int) browseModel {
	return browseModel{
		pages:    collectPages(b, pageSize),
		pageSize: pageSize,
	}
}

// collectPages materializes the book's lazy page sequence for display.
func collectPages(b *book.AddressBook, size int) [][]*book.Record {
	seq, err := b.Pages(size)
	if err != nil {
		seq, _ = b.Pages(book.DefaultPageSize)
	}

	var pages [][]*book.Record
	for page := range seq {
		pages = append(pages, page)
	}
	return pages
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) current() []*book.Record {
	if m.page >= len(m.pages) {
		return nil
	}
	return m.pages[m.page]
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	if len(m.pages) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.current())-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		r := m.current()[m.cursor]
		return m, func() tea.Msg { return viewRecordMsg{record: r} }
	}

	switch msg.String() {
	case "h", "left":
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}
		return m, nil

	case "l", "right":
		if m.page < len(m.pages)-1 {
			m.page++
			m.cursor = 0
		}
		return m, nil

	case "d":
		name := m.current()[m.cursor].Name()
		return m, func() tea.Msg { return deleteRecordMsg{name: name} }
	}

	return m, nil
}

func (m browseModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	title := zstyle.Title.Render("contacts")
	s := fmt.Sprintf("\n  %s\n\n", title)

	if len(m.pages) == 0 {
		s += "  " + zstyle.MutedText.Render("no contacts yet") + "\n"
		s += "\n\n"
		s += "  " + zstyle.MutedText.Render("esc back  q quit") + "\n"
		return s
	}

	for i, r := range m.current() {
		name := truncate(r.Name(), 24)
		line := fmt.Sprintf("%-24s %-12s %s",
			name, phoneSummary(r), r.Birthday())

		if i == m.cursor {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n  " + zstyle.MutedText.Render(fmt.Sprintf("page %d/%d", m.page+1, len(m.pages))) + "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	s += "  " + zstyle.MutedText.Render("j/k navigate  h/l page  enter view  d delete  esc back  q quit") + "\n"
	return s
}

// phoneSummary shows the first phone plus a count of the rest.
func phoneSummary(r *book.Record) string {
	phones := r.Phones()
	switch len(phones) {
	case 0:
		return "-"
	case 1:
		return phones[0]
	default:
		return fmt.Sprintf("%s +%d", phones[0], len(phones)-1)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
