package book

import (
	"errors"
	"iter"
	"strings"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// ErrPageSize rejects non-positive page sizes.
var ErrPageSize = errors.New("page size must be a positive integer")

// AddressBook is an insertion-ordered collection of records keyed by
// name. It owns its records exclusively; all mutation goes through the
// book or through records obtained from it within the same session.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// New returns an empty address book.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// Add inserts the record under its name. Adding a name that already
// exists replaces the old record silently (last write wins) but keeps the
// name's original slot in collection order.
func (b *AddressBook) Add(r *Record) {
	name := r.Name()
	if _, ok := b.records[name]; !ok {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

// Find looks up a record by exact, case-sensitive name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record; deleting an absent name is a no-op.
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.records) }

// Records returns all records in collection order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.records[n])
	}
	return out
}

// Search matches query case-insensitively against record names and
// case-sensitively against phone digit strings. Results keep collection
// order; a record appears once even when both its name and a phone match.
func (b *AddressBook) Search(query string) []*Record {
	q := strings.ToLower(query)

	var out []*Record
	for _, r := range b.Records() {
		if strings.Contains(strings.ToLower(r.Name()), q) {
			out = append(out, r)
			continue
		}
		for _, p := range r.Phones() {
			if strings.Contains(p, query) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Pages splits the book into pages of up to size records, lazily, in
// collection order. The final page may be shorter.
func (b *AddressBook) Pages(size int) (iter.Seq[[]*Record], error) {
	if size <= 0 {
		return nil, ErrPageSize
	}

	all := b.Records()
	return func(yield func([]*Record) bool) {
		for start := 0; start < len(all); start += size {
			end := min(start+size, len(all))
			if !yield(all[start:end]) {
				return
			}
		}
	}, nil
}
