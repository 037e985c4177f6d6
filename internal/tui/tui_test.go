package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/config"
)

// helpers

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func specialKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func escKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

func testRecord(t *testing.T, name string, phones ...string) *book.Record {
	t.Helper()
	r, err := book.NewRecord(name, "1990-06-15")
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	for _, p := range phones {
		if err := r.AddPhone(p); err != nil {
			t.Fatalf("AddPhone: %v", err)
		}
	}
	return r
}

func testBook(t *testing.T, names ...string) *book.AddressBook {
	t.Helper()
	b := book.New()
	for i, name := range names {
		r := testRecord(t, name, "555000000"+string(rune('0'+i%10)))
		b.Add(r)
	}
	return b
}

// password view tests

func TestPasswordViewShowsPrompt(t *testing.T) {
	m := newPasswordModel(false)
	view := m.View()

	if !strings.Contains(view, "master password") {
		t.Error("view should show master password prompt")
	}
	if strings.Contains(view, "create") {
		t.Error("non-first-run view should not contain 'create'")
	}
	if !strings.Contains(view, "zbook") {
		t.Error("view should show title")
	}
}

func TestPasswordFirstRunConfirmFlow(t *testing.T) {
	m := newPasswordModel(true)

	if !strings.Contains(m.View(), "create master password") {
		t.Error("first-run view should show 'create master password'")
	}

	m.input.SetValue("secret")
	m, _ = m.Update(enterKey())

	if !m.confirming {
		t.Error("should be in confirming state after first entry")
	}
	if !strings.Contains(m.View(), "confirm password") {
		t.Error("view should show confirm prompt")
	}

	m.input.SetValue("secret")
	m, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("should emit command on matching passwords")
	}

	msg, ok := cmd().(passwordSubmitMsg)
	if !ok {
		t.Fatalf("cmd should produce passwordSubmitMsg, got %T", cmd())
	}
	if msg.password != "secret" {
		t.Errorf("password = %q, want secret", msg.password)
	}
}

func TestPasswordFirstRunShowsEncryptionHint(t *testing.T) {
	m := newPasswordModel(true)
	if !strings.Contains(m.View(), "encrypts your address book") {
		t.Error("first-run view should explain what the password protects")
	}

	if strings.Contains(newPasswordModel(false).View(), "encrypts your address book") {
		t.Error("unlock view should not show the first-run hint")
	}
}

func TestPasswordFirstRunMismatch(t *testing.T) {
	m := newPasswordModel(true)

	m.input.SetValue("secret1")
	m, _ = m.Update(enterKey())
	m.input.SetValue("secret2")
	m, _ = m.Update(enterKey())

	if !strings.Contains(m.View(), "passwords do not match") {
		t.Error("should show mismatch error")
	}
	if m.confirming {
		t.Error("should reset confirming state")
	}
}

// menu tests

func TestMenuNavigation(t *testing.T) {
	m := newMenuModel("v1.0.0")

	m, _ = m.Update(keyMsg('j'))
	m, _ = m.Update(keyMsg('j'))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m, _ = m.Update(keyMsg('k'))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestMenuSelectEmitsNavigate(t *testing.T) {
	m := newMenuModel("v1.0.0")

	// second item is the add form
	m, _ = m.Update(keyMsg('j'))
	_, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}

	nav, ok := cmd().(navigateMsg)
	if !ok {
		t.Fatalf("expected navigateMsg, got %T", cmd())
	}
	if nav.view != viewForm {
		t.Errorf("view = %d, want viewForm", nav.view)
	}
}

func TestMenuShowsContactCount(t *testing.T) {
	m := newMenuModel("v1.0.0")
	m.contactCount = 3

	if !strings.Contains(m.View(), "3 contact(s)") {
		t.Error("view should show contact count")
	}
}

// browse tests

func TestBrowseEmptyBook(t *testing.T) {
	m := newBrowseModel(book.New(), 10)

	if !strings.Contains(m.View(), "no contacts yet") {
		t.Error("empty book should show placeholder")
	}
}

func TestBrowsePaging(t *testing.T) {
	b := testBook(t, "Ann", "Bob", "Cara")
	m := newBrowseModel(b, 2)

	if len(m.pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(m.pages))
	}
	if !strings.Contains(m.View(), "page 1/2") {
		t.Error("view should show page 1/2")
	}
	if !strings.Contains(m.View(), "Ann") || !strings.Contains(m.View(), "Bob") {
		t.Error("first page should list Ann and Bob")
	}
	if strings.Contains(m.View(), "Cara") {
		t.Error("first page should not list Cara")
	}

	m, _ = m.Update(keyMsg('l'))
	if m.page != 1 {
		t.Fatalf("page = %d, want 1", m.page)
	}
	if !strings.Contains(m.View(), "Cara") {
		t.Error("second page should list Cara")
	}

	// past the last page is a no-op
	m, _ = m.Update(keyMsg('l'))
	if m.page != 1 {
		t.Errorf("page = %d, want 1", m.page)
	}

	m, _ = m.Update(keyMsg('h'))
	if m.page != 0 {
		t.Errorf("page = %d, want 0", m.page)
	}
}

func TestBrowseEnterEmitsViewRecord(t *testing.T) {
	b := testBook(t, "Ann", "Bob")
	m := newBrowseModel(b, 10)

	m, _ = m.Update(keyMsg('j'))
	_, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}

	msg, ok := cmd().(viewRecordMsg)
	if !ok {
		t.Fatalf("expected viewRecordMsg, got %T", cmd())
	}
	if msg.record.Name() != "Bob" {
		t.Errorf("record = %s, want Bob", msg.record.Name())
	}
}

func TestBrowseDeleteEmitsDeleteRecord(t *testing.T) {
	b := testBook(t, "Ann")
	m := newBrowseModel(b, 10)

	_, cmd := m.Update(keyMsg('d'))
	if cmd == nil {
		t.Fatal("d should emit a command")
	}

	msg, ok := cmd().(deleteRecordMsg)
	if !ok {
		t.Fatalf("expected deleteRecordMsg, got %T", cmd())
	}
	if msg.name != "Ann" {
		t.Errorf("name = %s, want Ann", msg.name)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := "Åse Ærøskøbing-Øster Bjørnholm"
	got := truncate(long, 10)

	if !utf8.ValidString(got) {
		t.Fatalf("truncate(%q) = %q, not valid UTF-8", long, got)
	}
	if r := []rune(got); len(r) != 10 || r[len(r)-1] != '…' {
		t.Errorf("truncate(%q) = %q, want 10 runes ending in ellipsis", long, got)
	}

	if short := truncate("Åse", 10); short != "Åse" {
		t.Errorf("truncate(Åse) = %q, want unchanged", short)
	}
}

func TestBrowseEscReturnsToMenu(t *testing.T) {
	m := newBrowseModel(book.New(), 10)

	_, cmd := m.Update(escKey())
	if cmd == nil {
		t.Fatal("esc should emit a command")
	}
	if nav, ok := cmd().(navigateMsg); !ok || nav.view != viewMenu {
		t.Errorf("expected navigate to menu, got %v", cmd())
	}
}

// detail tests

func TestDetailShowsRecord(t *testing.T) {
	r := testRecord(t, "Jane Smith", "5551234567")
	m := newDetailModel(r)

	view := m.View()
	if !strings.Contains(view, "Jane Smith") {
		t.Error("view should show name")
	}
	if !strings.Contains(view, "5551234567") {
		t.Error("view should show phone")
	}
	if !strings.Contains(view, "1990-06-15") {
		t.Error("view should show birthday")
	}
}

func TestDetailAddPhone(t *testing.T) {
	r := testRecord(t, "Jane Smith")
	m := newDetailModel(r)

	m, _ = m.Update(keyMsg('a'))
	if m.mode != detailAddPhone {
		t.Fatal("a should enter add-phone mode")
	}

	m.input.SetValue("5559876543")
	m, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	if _, ok := cmd().(recordChangedMsg); !ok {
		t.Fatalf("expected recordChangedMsg, got %T", cmd())
	}
	if len(r.Phones()) != 1 || r.Phones()[0] != "5559876543" {
		t.Errorf("phones = %v, want [5559876543]", r.Phones())
	}
	if m.mode != detailView {
		t.Error("should return to view mode after save")
	}
}

func TestDetailAddPhoneInvalid(t *testing.T) {
	r := testRecord(t, "Jane Smith")
	m := newDetailModel(r)

	m, _ = m.Update(keyMsg('a'))
	m.input.SetValue("123")
	m, _ = m.Update(enterKey())

	if !strings.Contains(m.View(), "phone must be exactly 10 digits") {
		t.Error("invalid phone should flash the validation message")
	}
	if len(r.Phones()) != 0 {
		t.Error("invalid phone should not be added")
	}
	if m.mode != detailAddPhone {
		t.Error("should stay in add-phone mode on error")
	}
}

func TestDetailEditPhone(t *testing.T) {
	r := testRecord(t, "Jane Smith", "5551234567")
	m := newDetailModel(r)

	m, _ = m.Update(keyMsg('e'))
	if m.mode != detailEditPhone {
		t.Fatal("e should enter edit-phone mode")
	}
	if m.input.Value() != "5551234567" {
		t.Errorf("input prefilled with %q, want old phone", m.input.Value())
	}

	m.input.SetValue("5550001111")
	m, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	if r.Phones()[0] != "5550001111" {
		t.Errorf("phones = %v, want [5550001111]", r.Phones())
	}
}

func TestDetailRemovePhone(t *testing.T) {
	r := testRecord(t, "Jane Smith", "5551234567", "5559876543")
	m := newDetailModel(r)

	_, cmd := m.Update(keyMsg('x'))
	if cmd == nil {
		t.Fatal("x should emit a command")
	}
	if _, ok := cmd().(recordChangedMsg); !ok {
		t.Fatalf("expected recordChangedMsg, got %T", cmd())
	}
	if len(r.Phones()) != 1 || r.Phones()[0] != "5559876543" {
		t.Errorf("phones = %v, want [5559876543]", r.Phones())
	}
}

func TestDetailRemoveDuplicatePhonesClampsCursor(t *testing.T) {
	r := testRecord(t, "Jane Smith", "1111111111", "2222222222", "2222222222")
	m := newDetailModel(r)
	m.cursor = 2

	// removing the duplicate drops both entries at once
	m, _ = m.Update(keyMsg('x'))
	if got := r.Phones(); len(got) != 1 || got[0] != "1111111111" {
		t.Fatalf("phones = %v, want [1111111111]", got)
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}

	// edit and copy after the removal must target the remaining phone
	m, _ = m.Update(keyMsg('e'))
	if m.input.Value() != "1111111111" {
		t.Errorf("edit prefilled %q, want the remaining phone", m.input.Value())
	}
}

func TestDetailSetBirthday(t *testing.T) {
	r := testRecord(t, "Jane Smith")
	m := newDetailModel(r)

	m, _ = m.Update(keyMsg('b'))
	if m.mode != detailBirthday {
		t.Fatal("b should enter birthday mode")
	}

	m.input.SetValue("1985-12-31")
	m, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	if r.Birthday().String() != "1985-12-31" {
		t.Errorf("birthday = %s, want 1985-12-31", r.Birthday())
	}
}

func TestDetailEscCancelsInput(t *testing.T) {
	r := testRecord(t, "Jane Smith")
	m := newDetailModel(r)

	m, _ = m.Update(keyMsg('a'))
	m, _ = m.Update(escKey())
	if m.mode != detailView {
		t.Error("esc should cancel input mode")
	}
}

// form tests

func TestFormTabCyclesFocus(t *testing.T) {
	m := newFormModel()

	m, _ = m.Update(specialKey(tea.KeyTab))
	if m.focus != formFieldPhone {
		t.Errorf("focus = %d, want phone field", m.focus)
	}

	m, _ = m.Update(specialKey(tea.KeyShiftTab))
	if m.focus != formFieldName {
		t.Errorf("focus = %d, want name field", m.focus)
	}
}

func TestFormSubmitValid(t *testing.T) {
	m := newFormModel()
	m.inputs[formFieldName].SetValue("Jane Smith")
	m.inputs[formFieldPhone].SetValue("5551234567")
	m.inputs[formFieldBirthday].SetValue("1990-06-15")
	m.focus = formFieldBirthday

	_, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter on last field should emit a command")
	}

	msg, ok := cmd().(saveRecordMsg)
	if !ok {
		t.Fatalf("expected saveRecordMsg, got %T", cmd())
	}
	if msg.record.Name() != "Jane Smith" {
		t.Errorf("name = %s, want Jane Smith", msg.record.Name())
	}
	if len(msg.record.Phones()) != 1 {
		t.Errorf("phones = %v, want one phone", msg.record.Phones())
	}
}

func TestFormSubmitEmptyName(t *testing.T) {
	m := newFormModel()
	m.focus = formFieldBirthday

	m, _ = m.Update(enterKey())
	if !strings.Contains(m.View(), "name must not be empty") {
		t.Error("empty name should flash the validation message")
	}
}

func TestFormSubmitInvalidBirthday(t *testing.T) {
	m := newFormModel()
	m.inputs[formFieldName].SetValue("Jane Smith")
	m.inputs[formFieldBirthday].SetValue("15/06/1990")
	m.focus = formFieldBirthday

	m, _ = m.Update(enterKey())
	if !strings.Contains(m.View(), "invalid birthday format") {
		t.Error("bad birthday should flash the validation message")
	}
}

func TestFormEnterAdvancesBeforeLastField(t *testing.T) {
	m := newFormModel()
	m.inputs[formFieldName].SetValue("Jane Smith")

	m, cmd := m.Update(enterKey())
	if m.focus != formFieldPhone {
		t.Errorf("focus = %d, want phone field", m.focus)
	}
	if cmd != nil {
		t.Error("enter before last field should not submit")
	}
}

// search tests

func TestSearchFiltersByName(t *testing.T) {
	b := book.New()
	r1 := testRecord(t, "Jane Smith", "5551234567")
	r2 := testRecord(t, "John Smith", "5559876543")
	r3 := testRecord(t, "Bob Jones", "5550001111")
	b.Add(r1)
	b.Add(r2)
	b.Add(r3)

	m := newSearchModel(b)
	for _, r := range "smith" {
		m, _ = m.Update(keyMsg(r))
	}

	if len(m.results) != 2 {
		t.Fatalf("results = %d, want 2", len(m.results))
	}
	view := m.View()
	if !strings.Contains(view, "Jane Smith") || !strings.Contains(view, "John Smith") {
		t.Error("view should list both Smiths")
	}
	if strings.Contains(view, "Bob Jones") {
		t.Error("view should not list Bob Jones")
	}
}

func TestSearchFiltersByPhone(t *testing.T) {
	b := book.New()
	b.Add(testRecord(t, "Jane Smith", "5551234567"))
	b.Add(testRecord(t, "Bob Jones", "5559876543"))

	m := newSearchModel(b)
	for _, r := range "987" {
		m, _ = m.Update(keyMsg(r))
	}

	if len(m.results) != 1 || m.results[0].Name() != "Bob Jones" {
		t.Fatalf("results = %v, want Bob Jones only", len(m.results))
	}
}

func TestSearchNoMatches(t *testing.T) {
	b := testBook(t, "Ann")

	m := newSearchModel(b)
	for _, r := range "xyz" {
		m, _ = m.Update(keyMsg(r))
	}

	if !strings.Contains(m.View(), "no matches") {
		t.Error("view should say no matches")
	}
}

func TestSearchEnterOpensRecord(t *testing.T) {
	b := testBook(t, "Ann", "Bob")

	m := newSearchModel(b)
	for _, r := range "bob" {
		m, _ = m.Update(keyMsg(r))
	}

	_, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(viewRecordMsg)
	if !ok {
		t.Fatalf("expected viewRecordMsg, got %T", cmd())
	}
	if msg.record.Name() != "Bob" {
		t.Errorf("record = %s, want Bob", msg.record.Name())
	}
}

// settings tests

func TestSettingsSubmitValid(t *testing.T) {
	m := newSettingsModel(config.Settings{PageSize: 10})
	m.input.SetValue("25")

	_, cmd := m.Update(enterKey())
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}

	msg, ok := cmd().(saveSettingsMsg)
	if !ok {
		t.Fatalf("expected saveSettingsMsg, got %T", cmd())
	}
	if msg.settings.PageSize != 25 {
		t.Errorf("page size = %d, want 25", msg.settings.PageSize)
	}
}

func TestSettingsSubmitInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"zero", "0"},
		{"negative", "-3"},
		{"not a number", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSettingsModel(config.Settings{})
			m.input.SetValue(tt.value)

			m, _ = m.Update(enterKey())
			if !strings.Contains(m.View(), "page size must be a positive integer") {
				t.Error("invalid size should flash the validation message")
			}
		})
	}
}

// root model tests

func TestRootModelStartsAtPassword(t *testing.T) {
	m := New("v1.0.0", t.TempDir(), true)

	if m.active != viewPassword {
		t.Error("should start at password view")
	}
	if !strings.Contains(m.View(), "create master password") {
		t.Error("first run should prompt to create a password")
	}
}

func TestRootModelFlashCleared(t *testing.T) {
	m := New("v1.0.0", t.TempDir(), false)
	m.active = viewBrowse
	m.browse = newBrowseModel(book.New(), 10)
	m.browse.flash = "saved"

	next, _ := m.Update(flashMsg{})
	if got := next.(Model).browse.flash; got != "" {
		t.Errorf("flash = %q, want cleared", got)
	}
}
