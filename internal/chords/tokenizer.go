package chords

import (
	"iter"
	"strings"
)

// suffixes lists the chord qualities and extensions in match order.
//
// Longer alternatives precede their prefixes so a shorter suffix never pre-empts a longer one.
var suffixes = []string{
	"maj7", "maj", "min7", "min", "m7", "m",
	"dim7", "dim", "aug",
	"sus2", "sus4", "sus",
	"add9", "add11", "add13", "add",
	"6", "7", "9", "11", "13", "5",
	"",
}

// Match is a chord symbol found in a line along with its byte offset.
type Match struct {
	Symbol string
	Start  int
}

// End returns the offset just past the symbol.
func (m Match) End() int { return m.Start + len(m.Symbol) }

// Scan returns a lazy sequence of chord symbols in line, scanned left to right.
//
// Matches never overlap: once a symbol is consumed scanning resumes right after it.
func Scan(line string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		i := 0
		for i < len(line) {
			end, ok := matchAt(line, i)
			if !ok {
				i++
				continue
			}
			if !yield(Match{Symbol: line[i:end], Start: i}) {
				return
			}
			i = end
		}
	}
}

// Tokenize collects every [Match] from [Scan].
func Tokenize(line string) []Match {
	var matches []Match
	for m := range Scan(line) {
		matches = append(matches, m)
	}
	return matches
}

// IsChord reports whether s is exactly one chord symbol.
func IsChord(s string) bool {
	if s == "" {
		return false
	}
	end, ok := matchAt(s, 0)
	return ok && end == len(s)
}

// matchAt tries to match a chord starting at offset i and returns the end offset.
//
// Alternatives are tried in a fixed order: accidental before no accidental, then each suffix in
// [suffixes] order. The first candidate that passes the trailing boundary check wins.
func matchAt(line string, i int) (int, bool) {
	if !isRoot(line[i]) {
		return 0, false
	}
	if i > 0 && isWordByte(line[i-1]) {
		return 0, false
	}

	bases := make([]int, 0, 2)
	if i+1 < len(line) && isAccidental(line[i+1]) {
		bases = append(bases, i+2)
	}
	bases = append(bases, i+1)

	for _, base := range bases {
		for _, suffix := range suffixes {
			if !strings.HasPrefix(line[base:], suffix) {
				continue
			}
			end := base + len(suffix)
			if end < len(line) && blocksEnd(line[end]) {
				continue
			}
			return end, true
		}
	}
	return 0, false
}

func isRoot(c byte) bool { return c >= 'A' && c <= 'G' }

func isAccidental(c byte) bool { return c == '#' || c == 'b' }

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// blocksEnd reports whether c may not directly follow a chord symbol.
func blocksEnd(c byte) bool { return c == '#' || isWordByte(c) }
