// Package tui implements the root Bubble Tea model for zbook.
package tui

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/config"
	"github.com/zarlcorp/zbook/internal/store"
)

type viewID int

const (
	viewPassword viewID = iota
	viewMenu
	viewBrowse
	viewDetail
	viewForm
	viewSearch
	viewSettings
)

// Model is the root TUI model. It owns the store session: the book is
// loaded once at unlock and saved after every mutation and on exit.
type Model struct {
	version  string
	dataDir  string
	firstRun bool

	fsys    zfilesystem.ReadWriteFileFS
	store   *store.Store
	session *store.Session
	cfg     config.Settings

	active   viewID
	password passwordModel
	menu     menuModel
	browse   browseModel
	detail   detailModel
	form     formModel
	search   searchModel
	settings settingsModel

	// terminal dimensions
	width  int
	height int
}

// navigateMsg tells the root model to switch views.
type navigateMsg struct {
	view viewID
}

// flashMsg clears the active view's flash after a timeout.
type flashMsg struct{}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

// New creates the root TUI model.
func New(version, dataDir string, firstRun bool) Model {
	return Model{
		version:  version,
		dataDir:  dataDir,
		firstRun: firstRun,
		active:   viewPassword,
		password: newPasswordModel(firstRun),
		menu:     newMenuModel(version),
	}
}

func (m Model) Init() tea.Cmd {
	return m.password.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case passwordSubmitMsg:
		return m.openStore(msg.password)

	case navigateMsg:
		return m.navigate(msg.view)

	case saveRecordMsg:
		return m.handleSaveRecord(msg.record)

	case viewRecordMsg:
		m.detail = newDetailModel(msg.record)
		m.active = viewDetail
		return m, m.detail.Init()

	case deleteRecordMsg:
		return m.handleDelete(msg.name)

	case recordChangedMsg:
		return m.handleRecordChanged()

	case saveSettingsMsg:
		return m.handleSaveSettings(msg.settings)
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	switch m.active {
	case viewPassword:
		return m.password.View()
	case viewMenu:
		return m.menu.View()
	case viewBrowse:
		return m.browse.View()
	case viewDetail:
		return m.detail.View()
	case viewForm:
		return m.form.View()
	case viewSearch:
		return m.search.View()
	case viewSettings:
		return m.settings.View()
	}
	return ""
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewPassword:
		m.password, cmd = m.password.Update(msg)
	case viewMenu:
		m.menu, cmd = m.menu.Update(msg)
	case viewBrowse:
		m.browse, cmd = m.browse.Update(msg)
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewForm:
		m.form, cmd = m.form.Update(msg)
	case viewSearch:
		m.search, cmd = m.search.Update(msg)
	case viewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

func (m Model) openStore(password string) (tea.Model, tea.Cmd) {
	if err := os.MkdirAll(m.dataDir, 0o700); err != nil {
		m.password, _ = m.password.Update(passwordErrMsg{err: err})
		return m, nil
	}

	fsys := zfilesystem.NewOSFileSystem(m.dataDir)
	s, err := store.Open(fsys, password)
	if err != nil {
		m.password, _ = m.password.Update(passwordErrMsg{err: err})
		return m, nil
	}

	cfg, err := config.Load(fsys)
	if err != nil {
		s.Close()
		m.password, _ = m.password.Update(passwordErrMsg{err: err})
		return m, nil
	}

	sess, err := s.OpenSession(cfg.EffectiveBookFile())
	if err != nil {
		// a corrupt book is surfaced here rather than papered over
		s.Close()
		m.password, _ = m.password.Update(passwordErrMsg{err: err})
		return m, nil
	}

	m.fsys = fsys
	m.store = s
	m.cfg = cfg
	m.session = sess
	m.active = viewMenu
	m.menu = newMenuModel(m.version)
	m.menu.contactCount = sess.Book.Len()
	return m, nil
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	switch view {
	case viewMenu:
		mm := newMenuModel(m.version)
		if m.session != nil {
			mm.contactCount = m.session.Book.Len()
		}
		m.menu = mm
		m.active = viewMenu
		return m, tea.ClearScreen

	case viewBrowse:
		m.browse = newBrowseModel(m.session.Book, m.cfg.EffectivePageSize())
		m.active = viewBrowse
		return m, tea.ClearScreen

	case viewForm:
		m.form = newFormModel()
		m.active = viewForm
		return m, tea.Batch(m.form.Init(), tea.ClearScreen)

	case viewSearch:
		m.search = newSearchModel(m.session.Book)
		m.active = viewSearch
		return m, tea.Batch(m.search.Init(), tea.ClearScreen)

	case viewSettings:
		m.settings = newSettingsModel(m.cfg)
		m.active = viewSettings
		return m, tea.Batch(m.settings.Init(), tea.ClearScreen)

	case viewDetail:
		m.active = viewDetail
		return m, tea.ClearScreen
	}

	return m, nil
}

// persist writes the session's book back to disk.
func (m Model) persist() error {
	if m.session == nil {
		return nil
	}
	return m.session.Save()
}

func (m Model) handleSaveRecord(r *book.Record) (tea.Model, tea.Cmd) {
	m.session.Book.Add(r)
	if err := m.persist(); err != nil {
		m.form.flash = "save: " + err.Error()
		return m, clearFlashAfter()
	}

	m.detail = newDetailModel(r)
	m.active = viewDetail
	return m, m.detail.Init()
}

func (m Model) handleDelete(name string) (tea.Model, tea.Cmd) {
	m.session.Book.Delete(name)
	if err := m.persist(); err != nil {
		m.browse.flash = "delete: " + err.Error()
		return m, clearFlashAfter()
	}

	// back to a fresh browse view whether the delete came from browse or
	// detail
	return m.navigate(viewBrowse)
}

func (m Model) handleRecordChanged() (tea.Model, tea.Cmd) {
	if err := m.persist(); err != nil {
		m.detail.flash = "save: " + err.Error()
		return m, clearFlashAfter()
	}

	m.detail.flash = "saved"
	return m, clearFlashAfter()
}

func (m Model) handleSaveSettings(s config.Settings) (tea.Model, tea.Cmd) {
	if err := config.Save(m.fsys, s); err != nil {
		m.settings.flash = "save: " + err.Error()
		return m, clearFlashAfter()
	}

	m.cfg = s
	m.settings.flash = "saved"
	return m, clearFlashAfter()
}

// Close flushes the session and erases the store key. Call after the
// program exits so the book is saved on every exit path.
func (m Model) Close() {
	if m.session != nil {
		_ = m.session.Close()
	}
	if m.store != nil {
		m.store.Close()
	}
}
