package chords

import "strings"

// Segment is a run of text from a rendered line.
//
// Plain segments carry the text between chords. Chord segments carry one symbol and whether the user
// knows it.
type Segment struct {
	Text  string `json:"text"`
	Chord bool   `json:"chord,omitempty"`
	Known bool   `json:"known,omitempty"`
}

// RenderedLine is one line of a chord sheet after classification.
type RenderedLine struct {
	Kind     LineKind  `json:"kind"`
	Segments []Segment `json:"segments"`
}

// Text returns the original line.
func (l RenderedLine) Text() string { return JoinSegments(l.Segments) }

// RenderLine splits a chord line into plain and chord segments.
//
// The segments cover the whole line with no gaps, so [JoinSegments] returns line unchanged. An empty
// line renders as a single empty plain segment.
func RenderLine(line string, known KnownSet) []Segment {
	if line == "" {
		return []Segment{{Text: ""}}
	}

	var segments []Segment
	last := 0
	for m := range Scan(line) {
		if m.Start > last {
			segments = append(segments, Segment{Text: line[last:m.Start]})
		}
		segments = append(segments, Segment{
			Text:  m.Symbol,
			Chord: true,
			Known: known.Contains(m.Symbol),
		})
		last = m.End()
	}
	if last < len(line) {
		segments = append(segments, Segment{Text: line[last:]})
	}
	return segments
}

// RenderSheet classifies every line of a chords-and-lyrics text and renders the chord lines.
//
// Lines are split on "\n" and the result has one entry per line, blank lines included. Lyric lines are
// kept as a single plain segment.
func RenderSheet(text string, known KnownSet) []RenderedLine {
	lines := strings.Split(text, "\n")
	out := make([]RenderedLine, len(lines))
	for i, line := range lines {
		if IsChordLine(line) {
			out[i] = RenderedLine{Kind: ChordLine, Segments: RenderLine(line, known)}
			continue
		}
		out[i] = RenderedLine{Kind: LyricLine, Segments: []Segment{{Text: line}}}
	}
	return out
}

// JoinSegments concatenates segment text.
func JoinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
