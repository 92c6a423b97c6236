package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
)

var (
	_ list.Item = resultItem{}
)

// resultItem wraps [models.SongSummary] to implement [list.Item].
//
// index is the position in the session's results, which differs from the list index while filtering.
type resultItem struct {
	index   int
	summary models.SongSummary
	part    chords.Partition
}

func newResultItems(results []models.SongSummary, known chords.KnownSet) []list.Item {
	items := make([]list.Item, len(results))
	for i, s := range results {
		items[i] = resultItem{index: i, summary: s, part: s.Partition(known)}
	}
	return items
}

func (i resultItem) FilterValue() string { return i.summary.Label() }
func (i resultItem) Title() string       { return i.summary.Label() }
func (i resultItem) Description() string {
	desc := formatter.BadgeText(i.part)
	if len(i.part.Missing) > 0 {
		desc += " • " + strings.Join(i.part.Missing, " ")
	}
	if r := formatter.RatingText(i.summary.RatingAverage, i.summary.RatingCount); r != "" {
		desc += " • " + r
	}
	return desc
}
