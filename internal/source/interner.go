package source

import (
	"slices"
)

// StringID is the interned handle of a tag or denotation text.
type StringID uint32

const NoStringID StringID = 0

// Interner maps strings to dense IDs; ID 0 is the empty string.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID of s, adding it on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия, чтобы не держать исходный буфер
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Find returns the ID of s without interning it.
func (i *Interner) Find(s string) (StringID, bool) {
	id, ok := i.index[s]
	return id, ok
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len counts interned strings including the reserved empty one.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings in ID order.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
