package chords

import (
	"slices"
	"strings"
)

// KnownSet is the set of chord symbols a user already knows.
//
// Lookups are exact string comparisons; "Bb" and "A#" are different chords. A nil KnownSet is empty.
type KnownSet map[string]struct{}

// NewKnownSet builds a [KnownSet] from chord symbols, skipping blanks.
func NewKnownSet(chords ...string) KnownSet {
	set := make(KnownSet, len(chords))
	for _, ch := range chords {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		set[ch] = struct{}{}
	}
	return set
}

// ParseKnownSet parses comma separated user input such as "C, G, Am, F".
func ParseKnownSet(input string) KnownSet {
	return NewKnownSet(strings.Split(input, ",")...)
}

// Contains reports whether chord is in the set.
func (s KnownSet) Contains(chord string) bool {
	_, ok := s[chord]
	return ok
}

// Len returns the number of chords in the set.
func (s KnownSet) Len() int { return len(s) }

// Sorted returns the chords in lexical order.
func (s KnownSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ch := range s {
		out = append(out, ch)
	}
	slices.Sort(out)
	return out
}

// String joins the sorted chords with ", " in the same shape [ParseKnownSet] accepts.
func (s KnownSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// Partition splits a chord vocabulary into chords the user knows and chords they do not.
type Partition struct {
	Known   []string `json:"known"`
	Missing []string `json:"missing"`
}

// AllKnown reports whether nothing is missing.
func (p Partition) AllKnown() bool { return len(p.Missing) == 0 }

// Diff partitions vocabulary against known, keeping the original order and any duplicates.
//
// Neither argument is modified.
func Diff(vocabulary []string, known KnownSet) Partition {
	p := Partition{
		Known:   []string{},
		Missing: []string{},
	}
	for _, ch := range vocabulary {
		if known.Contains(ch) {
			p.Known = append(p.Known, ch)
		} else {
			p.Missing = append(p.Missing, ch)
		}
	}
	return p
}
