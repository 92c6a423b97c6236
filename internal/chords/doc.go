// Package chords recognizes chord symbols in song text and prepares chord sheets for display.
//
// # Tokenizer
//
// [Scan] walks a line left to right and yields every non-overlapping chord symbol.
// A symbol is a root (A–G), an optional accidental (# or b) and an optional suffix from a fixed list.
// Suffixes are tried longest-first ("maj7" before "maj", "add11" before "add") and a candidate is
// rejected when the next byte is "#" or a word character, so "D#" is one token and never "D".
//
// # Classifier
//
// [IsChordLine] treats a line as a chord line when more than half of its non-space characters
// belong to recognized chords. This is a heuristic: short lyric lines such as "A" or "Am I" can be
// misread as chord lines and that is accepted.
//
// # Renderer and Diff
//
// [RenderLine] splits a chord line into plain and chord [Segment] values that concatenate back to the
// original line. [Diff] partitions a song's chord list into known and missing chords for a [KnownSet].
//
// Every function in this package is pure and safe for concurrent use.
package chords
