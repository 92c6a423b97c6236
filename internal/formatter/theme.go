package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
)

const (
	noResults = "No songs found. Try different chords or filters."
	noLyrics  = "No lyrics available"
	allKnown  = "✓ You know all chords"
	star      = "★"
	emptyStar = "☆"
)

// Theme is the set of [lipgloss.Style] values used to draw songs in the terminal.
type Theme struct {
	Title   lipgloss.Style
	Artist  lipgloss.Style
	Header  lipgloss.Style
	Known   lipgloss.Style
	Missing lipgloss.Style
	Muted   lipgloss.Style
	Star    lipgloss.Style
	Good    lipgloss.Style
	Bad     lipgloss.Style
}

// NewTheme builds a [Theme] from configured colors.
func NewTheme(cfg shared.DisplayConfig) Theme {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Theme{
		Title:   fg(cfg.TitleColor).Bold(true),
		Artist:  fg(cfg.MutedColor),
		Header:  fg(cfg.TitleColor).Bold(true).MarginTop(1),
		Known:   fg(cfg.KnownColor).Bold(true),
		Missing: fg(cfg.MissingColor).Bold(true),
		Muted:   fg(cfg.MutedColor).Italic(true),
		Star:    fg(cfg.StarColor),
		Good:    fg(cfg.KnownColor),
		Bad:     fg(cfg.MissingColor),
	}
}

// DefaultTheme uses the colors of the embedded example config.
func DefaultTheme() Theme {
	return NewTheme(shared.DefaultConfig().Display)
}

// Chip renders a chord as a known or missing chip.
func (t Theme) Chip(chord string, known bool) string {
	if known {
		return t.Known.Render(chord)
	}
	return t.Missing.Render(chord)
}

// Chips renders known chips followed by missing chips.
func (t Theme) Chips(p chords.Partition) string {
	parts := make([]string, 0, len(p.Known)+len(p.Missing))
	for _, c := range p.Known {
		parts = append(parts, t.Chip(c, true))
	}
	for _, c := range p.Missing {
		parts = append(parts, t.Chip(c, false))
	}
	return strings.Join(parts, " ")
}

// Badge summarizes how many chords of a song are new.
func (t Theme) Badge(p chords.Partition) string {
	if p.AllKnown() {
		return t.Good.Render(BadgeText(p))
	}
	return t.Bad.Render(BadgeText(p))
}

// BadgeText is the unstyled form of [Theme.Badge].
func BadgeText(p chords.Partition) string {
	if p.AllKnown() {
		return allKnown
	}
	n := len(p.Missing)
	return fmt.Sprintf("%d new %s", n, shared.Pluralize(n, "chord"))
}

// ResultCard renders one search result.
func (t Theme) ResultCard(s models.SongSummary, known chords.KnownSet) string {
	p := s.Partition(known)
	var b strings.Builder
	b.WriteString(t.Title.Render(s.Label()))
	b.WriteString("  ")
	b.WriteString(t.Badge(p))
	if line := t.RatingLine(s.RatingAverage, s.RatingCount); line != "" {
		b.WriteString("  ")
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(t.Chips(p))
	return b.String()
}

// ResultCount describes the size of a result list. Nothing is shown before a search.
func (t Theme) ResultCount(n int, searched bool) string {
	if !searched {
		return ""
	}
	if n == 0 {
		return t.Muted.Render(noResults)
	}
	return t.Muted.Render(fmt.Sprintf("%d songs found", n))
}

// Stars renders five stars with the first filled ones highlighted.
func (t Theme) Stars(filled int) string {
	filled = max(0, min(filled, models.MaxRating))
	return t.Star.Render(strings.Repeat(star, filled)) +
		t.Muted.Render(strings.Repeat(emptyStar, models.MaxRating-filled))
}

// RatingLine renders "4.2 ★ · 3 ratings", or nothing for an unrated song.
func (t Theme) RatingLine(avg *float64, count int) string {
	text := RatingText(avg, count)
	if text == "" {
		return ""
	}
	return t.Star.Render(text)
}

// RatingText is the unstyled form of [Theme.RatingLine].
func RatingText(avg *float64, count int) string {
	if avg == nil || *avg == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f %s · %d %s", *avg, star, count, shared.Pluralize(count, "rating"))
}

// RatingPrompt is shown under the stars on a song page.
func (t Theme) RatingPrompt(rated int) string {
	if rated > 0 {
		return t.Stars(rated) + "  " + t.Good.Render("Thanks for rating!")
	}
	return t.Stars(0) + "  " + t.Muted.Render("Rate this song (1-5)")
}

// Line renders one classified sheet line, coloring chords on chord lines.
func (t Theme) Line(line chords.RenderedLine) string {
	var b strings.Builder
	for _, seg := range line.Segments {
		switch {
		case seg.Chord && seg.Known:
			b.WriteString(t.Known.Render(seg.Text))
		case seg.Chord:
			b.WriteString(t.Missing.Render(seg.Text))
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Sheet renders chords-and-lyrics text.
func (t Theme) Sheet(text string, known chords.KnownSet) string {
	if text == "" {
		return t.Muted.Render(noLyrics)
	}
	lines := chords.RenderSheet(text, known)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = t.Line(l)
	}
	return strings.Join(out, "\n")
}

// SongSheet renders a full song page: title, artist, rating, chord chips and the sheet.
func (t Theme) SongSheet(song models.Song, known chords.KnownSet) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(song.Name))
	b.WriteString("\n")
	b.WriteString(t.Artist.Render(song.Artist))
	if line := t.RatingLine(song.RatingAverage, song.RatingCount); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n")

	b.WriteString(t.Header.Render("Chords Used"))
	b.WriteString("\n")
	chips := make([]string, len(song.Chords))
	for i, c := range song.Chords {
		chips[i] = t.Chip(c, known.Contains(c))
	}
	b.WriteString(strings.Join(chips, " "))
	b.WriteString("\n")

	b.WriteString(t.Header.Render("Chords + Lyrics"))
	b.WriteString("\n")
	b.WriteString(t.Sheet(song.ChordsAndLyrics, known))
	b.WriteString("\n")
	return b.String()
}
