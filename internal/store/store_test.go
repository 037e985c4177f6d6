package store

import (
	"errors"
	"testing"

	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/zarlcorp/zbook/internal/book"
)

func openTestStore(t *testing.T) (*Store, *zfilesystem.MemFS) {
	t.Helper()
	fs := zfilesystem.NewMemFS()
	s, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, fs
}

func newTestBook(t *testing.T) *book.AddressBook {
	t.Helper()
	b := book.New()

	jane, err := book.NewRecord("Jane Smith", "1990-06-15")
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	for _, p := range []string{"9876543210", "5550001111"} {
		if err := jane.AddPhone(p); err != nil {
			t.Fatalf("add phone: %v", err)
		}
	}

	john, err := book.NewRecord("John Doe", "")
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := john.AddPhone("1234567890"); err != nil {
		t.Fatalf("add phone: %v", err)
	}

	b.Add(jane)
	b.Add(john)
	return b
}

func TestFirstRunCreatesSaltAndVerify(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	s, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, err := fs.ReadFile(saltFile); err != nil {
		t.Fatal("salt file not created")
	}
	if _, err := fs.ReadFile(verifyFile); err != nil {
		t.Fatal("verify file not created")
	}
}

func TestReopenWithCorrectPassword(t *testing.T) {
	fs := zfilesystem.NewMemFS()

	s1, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()

	s2, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestWrongPasswordFails(t *testing.T) {
	fs := zfilesystem.NewMemFS()

	s, err := Open(fs, "correct")
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	if _, err := Open(fs, "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	want := newTestBook(t)

	if err := s.Save(DefaultBookFile, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(DefaultBookFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	assertBooksEqual(t, want, got)
}

func TestLoadMissingFileYieldsEmptyBook(t *testing.T) {
	s, _ := openTestStore(t)

	b, err := s.Load(DefaultBookFile)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("len = %d, want 0", b.Len())
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	s, fs := openTestStore(t)

	if err := fs.WriteFile(DefaultBookFile, []byte("not a snapshot"), 0o600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	_, err := s.Load(DefaultBookFile)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("load corrupt: got %v, want ErrCorrupt", err)
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Save(DefaultBookFile, newTestBook(t)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	small := book.New()
	r, err := book.NewRecord("Only One", "")
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	small.Add(r)
	if err := s.Save(DefaultBookFile, small); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(DefaultBookFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("len = %d, want 1", got.Len())
	}
	if _, ok := got.Find("Only One"); !ok {
		t.Error("Only One not found after overwrite")
	}
}

func TestDataPersistsAcrossReopen(t *testing.T) {
	fs := zfilesystem.NewMemFS()

	s1, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	want := newTestBook(t)
	if err := s1.Save(DefaultBookFile, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	s1.Close()

	s2, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Load(DefaultBookFile)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	assertBooksEqual(t, want, got)
}

func TestCloseErasesKey(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	s, err := Open(fs, "testpass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	s.Close()

	if s.key != nil {
		t.Fatal("key not nil after close")
	}
}

func assertBooksEqual(t *testing.T, want, got *book.AddressBook) {
	t.Helper()

	if got.Len() != want.Len() {
		t.Fatalf("len = %d, want %d", got.Len(), want.Len())
	}

	wantRecords := want.Records()
	gotRecords := got.Records()
	for i := range wantRecords {
		// String covers name, phone order and birthday in one shot
		if gotRecords[i].String() != wantRecords[i].String() {
			t.Errorf("record %d = %q, want %q", i, gotRecords[i], wantRecords[i])
		}
	}
}
