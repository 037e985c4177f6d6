// Package store persists an address book as a single encrypted snapshot
// file. The payload is a JSON snapshot of every record, encrypted with
// AES-256-GCM under a key derived from the master password; a salt and a
// verification token guard the password the same way the other zarlcorp
// tools do.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/zarlcorp/zbook/internal/book"
)

const (
	saltFile    = "salt"
	verifyFile  = "verify"
	verifyToken = "zbook-address-book-ok"
)

// DefaultBookFile is the snapshot path used when none is configured.
const DefaultBookFile = "book.enc"

// ErrCorrupt is returned when a snapshot exists but cannot be decrypted
// or decoded. A corrupt book is never silently replaced by an empty one;
// only a missing file loads as empty.
var ErrCorrupt = errors.New("address book file is corrupt")

// Store reads and writes encrypted address book snapshots on a filesystem.
type Store struct {
	fs  zfilesystem.ReadWriteFileFS
	key []byte
}

// Open opens or initializes a store. On first run it creates the salt and
// verification token; on subsequent runs it verifies the password by
// decrypting the token.
func Open(fsys zfilesystem.ReadWriteFileFS, password string) (*Store, error) {
	salt, err := readOrCreateSalt(fsys)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	key, _, err := zcrypto.DeriveKey([]byte(password), salt)
	if err != nil {
		return nil, fmt.Errorf("open store: derive key: %w", err)
	}

	if err := verifyOrCreateToken(fsys, key); err != nil {
		zcrypto.Erase(key)
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{fs: fsys, key: key}, nil
}

// snapshot is the serialized form of a book. Records keep collection
// order so a load reproduces it.
type snapshot struct {
	Records []recordSnapshot `json:"records"`
}

type recordSnapshot struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones,omitempty"`
	Birthday string   `json:"birthday,omitempty"`
}

// Save encrypts and writes the whole book to path, replacing any previous
// snapshot. When the filesystem supports Rename the write goes through a
// temp file so an interrupted save cannot leave a partial snapshot.
func (s *Store) Save(path string, b *book.AddressBook) error {
	var snap snapshot
	for _, r := range b.Records() {
		snap.Records = append(snap.Records, recordSnapshot{
			Name:     r.Name(),
			Phones:   r.Phones(),
			Birthday: r.Birthday().Value(),
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save book: marshal: %w", err)
	}

	ct, err := zcrypto.Encrypt(s.key, data)
	if err != nil {
		return fmt.Errorf("save book: encrypt: %w", err)
	}

	return s.writeSnapshot(path, ct)
}

// renameFS is the optional capability used for atomic snapshot writes.
type renameFS interface {
	Rename(oldpath, newpath string) error
}

func (s *Store) writeSnapshot(path string, data []byte) error {
	rfs, ok := s.fs.(renameFS)
	if !ok {
		if err := s.fs.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("save book: write %s: %w", path, err)
		}
		return nil
	}

	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("save book: write %s: %w", tmp, err)
	}
	if err := rfs.Rename(tmp, path); err != nil {
		return fmt.Errorf("save book: rename %s: %w", tmp, err)
	}
	return nil
}

// Load reads and decrypts the snapshot at path into a fresh book. A
// missing file yields an empty book and no error; a present but
// unreadable file yields ErrCorrupt.
func (s *Store) Load(path string) (*book.AddressBook, error) {
	ct, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return book.New(), nil
		}
		return nil, fmt.Errorf("load book: read %s: %w", path, err)
	}

	data, err := zcrypto.Decrypt(s.key, ct)
	if err != nil {
		return nil, fmt.Errorf("load book: decrypt %s: %w", path, ErrCorrupt)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("load book: decode %s: %w", path, ErrCorrupt)
	}

	// rebuild through the validating constructors so a tampered snapshot
	// cannot smuggle in invalid values
	b := book.New()
	for _, rs := range snap.Records {
		r, err := book.NewRecord(rs.Name, rs.Birthday)
		if err != nil {
			return nil, fmt.Errorf("load book: record %q: %w", rs.Name, err)
		}
		for _, p := range rs.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("load book: record %q: %w", rs.Name, err)
			}
		}
		b.Add(r)
	}

	return b, nil
}

// Close erases the encryption key from memory.
func (s *Store) Close() error {
	zcrypto.Erase(s.key)
	s.key = nil
	return nil
}

func readOrCreateSalt(fsys zfilesystem.ReadWriteFileFS) ([]byte, error) {
	salt, err := fsys.ReadFile(saltFile)
	if err == nil {
		return salt, nil
	}

	salt, err = zcrypto.RandBytes(zcrypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	if err := fsys.WriteFile(saltFile, salt, 0o600); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}

	return salt, nil
}

func verifyOrCreateToken(fsys zfilesystem.ReadWriteFileFS, key []byte) error {
	ct, err := fsys.ReadFile(verifyFile)
	if err != nil {
		// first run — create the verification token
		ct, err = zcrypto.Encrypt(key, []byte(verifyToken))
		if err != nil {
			return fmt.Errorf("encrypt verify token: %w", err)
		}

		if err := fsys.WriteFile(verifyFile, ct, 0o600); err != nil {
			return fmt.Errorf("write verify token: %w", err)
		}

		return nil
	}

	// subsequent run — verify the password
	plain, err := zcrypto.Decrypt(key, ct)
	if err != nil {
		return errors.New("wrong password")
	}

	if string(plain) != verifyToken {
		return errors.New("wrong password")
	}

	return nil
}
