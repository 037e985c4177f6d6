// Package field provides the validated value types that make up a contact
// record. Every field runs its validation hook on construction and on each
// Set, so an invalid value is never observable through a field.
package field

import "time"

// ValidationError reports a value that violates a field's invariant. The
// message is human-readable and printed verbatim by calling layers.
type ValidationError struct {
	reason string
}

func (e *ValidationError) Error() string { return e.reason }

// Validation failures, comparable with errors.Is.
var (
	ErrEmptyName      = &ValidationError{"name must not be empty"}
	ErrPhoneFormat    = &ValidationError{"phone must be exactly 10 digits"}
	ErrBirthdayFormat = &ValidationError{"invalid birthday format"}
	ErrBirthdayUnset  = &ValidationError{"birthday not set"}
)

// Field holds a value of type T guarded by a check. All mutation goes
// through Set; a failed check leaves the previous value in place.
type Field[T any] struct {
	value T
	check func(T) error
}

// New runs check against v and returns a field only when it passes.
func New[T any](check func(T) error, v T) (Field[T], error) {
	f := Field[T]{check: check}
	if err := f.Set(v); err != nil {
		return Field[T]{}, err
	}
	return f, nil
}

// Set replaces the stored value if the check accepts it.
func (f *Field[T]) Set(v T) error {
	if f.check != nil {
		if err := f.check(v); err != nil {
			return err
		}
	}
	f.value = v
	return nil
}

// Value returns the current value.
func (f Field[T]) Value() T { return f.value }

// Name is a contact's display name and its key in the address book.
type Name struct {
	Field[string]
}

// NewName validates and wraps a display name.
func NewName(raw string) (Name, error) {
	f, err := New(checkName, raw)
	if err != nil {
		return Name{}, err
	}
	return Name{f}, nil
}

func (n Name) String() string { return n.Value() }

func checkName(s string) error {
	if s == "" {
		return ErrEmptyName
	}
	return nil
}

// Phone is a canonical 10-digit phone number. Separators are not
// stripped; callers supply the bare digits.
type Phone struct {
	Field[string]
}

// NewPhone validates and wraps a phone number.
func NewPhone(raw string) (Phone, error) {
	f, err := New(checkPhone, raw)
	if err != nil {
		return Phone{}, err
	}
	return Phone{f}, nil
}

func (p Phone) String() string { return p.Value() }

func checkPhone(s string) error {
	if len(s) != 10 {
		return ErrPhoneFormat
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrPhoneFormat
		}
	}
	return nil
}

// DateLayout is the wire and display format for birthdays.
const DateLayout = "2006-01-02"

// Birthday is an optional calendar date. The empty string means the
// birthday is not known.
type Birthday struct {
	Field[string]
}

// NewBirthday validates and wraps a birthday; raw may be empty.
func NewBirthday(raw string) (Birthday, error) {
	f, err := New(checkBirthday, raw)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{f}, nil
}

func checkBirthday(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrBirthdayFormat
	}
	return nil
}

// IsSet reports whether a birthday is known.
func (b Birthday) IsSet() bool { return b.Value() != "" }

// String renders the date, or "unknown" when not set.
func (b Birthday) String() string {
	if !b.IsSet() {
		return "unknown"
	}
	return b.Value()
}

// Date returns the parsed calendar date.
func (b Birthday) Date() (time.Time, error) {
	if !b.IsSet() {
		return time.Time{}, ErrBirthdayUnset
	}
	t, err := time.Parse(DateLayout, b.Value())
	if err != nil {
		return time.Time{}, ErrBirthdayFormat
	}
	return t, nil
}

// DaysUntil counts the days from today to the next occurrence of the
// birthday, 0 when today is the day. Feb 29 birthdays fall on Feb 28 in
// non-leap years.
func (b Birthday) DaysUntil(today time.Time) (int, error) {
	born, err := b.Date()
	if err != nil {
		return 0, err
	}

	today = midnightUTC(today)
	next := occurrenceIn(today.Year(), born)
	if next.Before(today) {
		next = occurrenceIn(today.Year()+1, born)
	}
	return int(next.Sub(today).Hours() / 24), nil
}

// occurrenceIn places the birthday's month and day in year, clamping
// Feb 29 to the last day of February when year is not a leap year.
func occurrenceIn(year int, born time.Time) time.Time {
	month, day := born.Month(), born.Day()
	if month == time.February {
		if last := time.Date(year, time.March, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
			day = last
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
