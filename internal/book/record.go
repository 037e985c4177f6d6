// Package book implements contact records and the address book that owns
// them. A book is single-session: one caller mutates it and writes it back.
package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/zarlcorp/zbook/internal/field"
)

// NotFoundError reports a referenced phone or record that does not exist.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

var (
	// ErrPhoneNotFound is returned by EditPhone when the old number is absent.
	ErrPhoneNotFound = &NotFoundError{"old phone number not found"}
	// ErrRecordNotFound is returned by callers resolving a name that is not
	// in the book.
	ErrRecordNotFound = &NotFoundError{"record not found"}
)

// Record is a single contact: a name, its phone numbers in the order they
// were added, and an optional birthday.
type Record struct {
	name     field.Name
	phones   []field.Phone
	birthday field.Birthday
}

// NewRecord creates a record with no phones. birthday may be empty.
func NewRecord(name, birthday string) (*Record, error) {
	n, err := field.NewName(name)
	if err != nil {
		return nil, err
	}
	b, err := field.NewBirthday(birthday)
	if err != nil {
		return nil, err
	}
	return &Record{name: n, birthday: b}, nil
}

// Name returns the contact's display name.
func (r *Record) Name() string { return r.name.Value() }

// Phones returns the numbers in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.String()
	}
	return out
}

// AddPhone validates raw and appends it. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := field.NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone drops every phone equal to raw. Removing a number that is
// not present is a no-op.
func (r *Record) RemovePhone(raw string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if p.String() != raw {
			kept = append(kept, p)
		}
	}
	r.phones = kept
}

// EditPhone replaces oldRaw with a validated newRaw. The record is left
// untouched when oldRaw is absent or newRaw is invalid.
func (r *Record) EditPhone(oldRaw, newRaw string) error {
	if _, ok := r.FindPhone(oldRaw); !ok {
		return ErrPhoneNotFound
	}

	p, err := field.NewPhone(newRaw)
	if err != nil {
		return err
	}

	r.RemovePhone(oldRaw)
	r.phones = append(r.phones, p)
	return nil
}

// FindPhone returns the first phone equal to raw.
func (r *Record) FindPhone(raw string) (field.Phone, bool) {
	for _, p := range r.phones {
		if p.String() == raw {
			return p, true
		}
	}
	return field.Phone{}, false
}

// SetBirthday replaces the birthday; an empty value clears it.
func (r *Record) SetBirthday(raw string) error {
	return r.birthday.Set(raw)
}

// Birthday returns the birthday field.
func (r *Record) Birthday() field.Birthday { return r.birthday }

// DaysToBirthday counts the days from today to the next occurrence of the
// contact's birthday.
func (r *Record) DaysToBirthday(today time.Time) (int, error) {
	return r.birthday.DaysUntil(today)
}

// String renders the record in the fixed display format the CLI prints
// and tests assert on.
func (r *Record) String() string {
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s",
		r.name, strings.Join(r.Phones(), "; "), r.birthday)
}
