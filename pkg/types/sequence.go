package types

import "strings"

// Sequence is the ordered list of contacts. Positions are 0-based and
// dense: removing an entry shifts every later entry down by one.
type Sequence []Contact

// Entry pairs a contact with its position in the unfiltered sequence, so
// search results stay addressable for edit and delete.
type Entry struct {
	Index   int     `json:"index"`
	Contact Contact `json:"contact"`
}

// Len returns the number of contacts.
func (s Sequence) Len() int {
	return len(s)
}

// At returns the contact at index i.
// Returns ErrIndexOutOfRange if i is not a valid position.
func (s Sequence) At(i int) (Contact, error) {
	if i < 0 || i >= len(s) {
		return Contact{}, ErrIndexOutOfRange
	}
	return s[i], nil
}

// Append adds c to the end and returns its index.
func (s *Sequence) Append(c Contact) int {
	*s = append(*s, c)
	return len(*s) - 1
}

// Replace overwrites the contact at index i.
func (s Sequence) Replace(i int, c Contact) error {
	if i < 0 || i >= len(s) {
		return ErrIndexOutOfRange
	}
	s[i] = c
	return nil
}

// Remove deletes the contact at index i.
func (s *Sequence) Remove(i int) error {
	if i < 0 || i >= len(*s) {
		return ErrIndexOutOfRange
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return nil
}

// Clone returns a deep copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, c := range s {
		out[i] = c.Clone()
	}
	return out
}

// Search returns the contacts whose full name, given name, or family name
// contains query, ignoring case. An empty query matches every contact.
func (s Sequence) Search(query string) []Entry {
	q := strings.ToLower(query)
	entries := make([]Entry, 0, len(s))
	for i, c := range s {
		if q == "" || matches(c, q) {
			entries = append(entries, Entry{Index: i, Contact: c})
		}
	}
	return entries
}

func matches(c Contact, lowered string) bool {
	for _, name := range []string{FieldFullName, FieldGiven, FieldFamily} {
		if strings.Contains(strings.ToLower(c.Value(name)), lowered) {
			return true
		}
	}
	return false
}
