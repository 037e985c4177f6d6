package store

import (
	"errors"
	"fmt"

	"github.com/zarlcorp/zbook/internal/book"
)

// Session couples a loaded book with its snapshot path. Close writes the
// book back exactly once, so every exit path that defers Close flushes
// the session's changes.
type Session struct {
	store  *Store
	path   string
	Book   *book.AddressBook
	closed bool
}

// OpenSession loads the snapshot at path into a new session. A missing
// snapshot starts the session with an empty book.
func (s *Store) OpenSession(path string) (*Session, error) {
	b, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	return &Session{store: s, path: path, Book: b}, nil
}

// Close saves the book back to its snapshot path. Later calls are no-ops.
func (sess *Session) Close() error {
	if sess.closed {
		return nil
	}
	sess.closed = true

	if err := sess.store.Save(sess.path, sess.Book); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Save flushes the book without ending the session.
func (sess *Session) Save() error {
	if sess.closed {
		return errors.New("session is closed")
	}
	return sess.store.Save(sess.path, sess.Book)
}

// WithSession loads the book at path, runs fn against it, and saves on
// the way out — including when fn fails, so partial edits made before the
// failure are not lost.
func (s *Store) WithSession(path string, fn func(*book.AddressBook) error) error {
	sess, err := s.OpenSession(path)
	if err != nil {
		return err
	}
	return errors.Join(fn(sess.Book), sess.Close())
}
