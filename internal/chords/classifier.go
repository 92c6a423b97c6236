package chords

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/chordfinder/internal/shared"
)

// DensityThreshold is the share of non-space characters that must belong to chords for a line to
// count as a chord line.
const DensityThreshold = 0.5

// LineKind tells chord lines apart from lyric lines.
type LineKind int

const (
	LyricLine LineKind = iota
	ChordLine
)

func (k LineKind) String() string {
	switch k {
	case ChordLine:
		return "chord"
	case LyricLine:
		return "lyric"
	default:
		return ""
	}
}

// MarshalText encodes the kind by name.
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by [LineKind.MarshalText].
func (k *LineKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "chord":
		*k = ChordLine
	case "lyric":
		*k = LyricLine
	default:
		return fmt.Errorf("%w: unknown line kind %q", shared.ErrInvalidInput, text)
	}
	return nil
}

// Classify returns the [LineKind] of line.
func Classify(line string) LineKind {
	if IsChordLine(line) {
		return ChordLine
	}
	return LyricLine
}

// IsChordLine reports whether line is mostly chord symbols.
//
// The decision depends only on the line's own text.
func IsChordLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	chordChars, count := 0, 0
	for m := range Scan(trimmed) {
		chordChars += len(m.Symbol)
		count++
	}
	if count == 0 {
		return false
	}

	nonSpace := 0
	for _, r := range trimmed {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}

	return nonSpace > 0 && float64(chordChars)/float64(nonSpace) > DensityThreshold
}
