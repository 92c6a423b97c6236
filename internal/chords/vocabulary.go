package chords

import "strings"

// Vocabulary returns the distinct chords used in a chord sheet, in first-seen order.
//
// Only lines that [RenderSheet] treats as chord lines contribute, which keeps words like "A" in lyrics
// out of the list. Lines carrying markers such as <chorus> are classified as written.
func Vocabulary(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, line := range strings.Split(text, "\n") {
		if !IsChordLine(line) {
			continue
		}
		for m := range Scan(line) {
			if _, ok := seen[m.Symbol]; ok {
				continue
			}
			seen[m.Symbol] = struct{}{}
			out = append(out, m.Symbol)
		}
	}
	return out
}
