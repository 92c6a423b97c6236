// package formatter renders songs for the terminal (lipgloss) and exports them to plain formats (text, Markdown, JSON, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat accepts txt, text, md, markdown and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (txt, md, json)", shared.ErrInvalidArgument, s)
	}
}

func writeHeader(buf *bytes.Buffer, song models.Song, p chords.Partition, md bool) {
	if md {
		fmt.Fprintf(buf, "# %s\n\n", song.Name)
		fmt.Fprintf(buf, "**Artist**: %s\n", song.Artist)
		if song.Genre != "" {
			fmt.Fprintf(buf, "**Genre**: %s\n", song.Genre)
		}
		if r := RatingText(song.RatingAverage, song.RatingCount); r != "" {
			fmt.Fprintf(buf, "**Rating**: %s\n", r)
		}
		fmt.Fprintf(buf, "**Known chords**: %s\n", strings.Join(p.Known, ", "))
		fmt.Fprintf(buf, "**New chords**: %s\n\n", strings.Join(p.Missing, ", "))
		return
	}

	fmt.Fprintf(buf, "%s - %s\n", song.Artist, song.Name)
	if song.Genre != "" {
		fmt.Fprintf(buf, "Genre: %s\n", song.Genre)
	}
	if r := RatingText(song.RatingAverage, song.RatingCount); r != "" {
		fmt.Fprintf(buf, "Rating: %s\n", r)
	}
	fmt.Fprintf(buf, "Known chords: %s\n", strings.Join(p.Known, ", "))
	fmt.Fprintf(buf, "New chords: %s\n\n", strings.Join(p.Missing, ", "))
}

// SheetText exports a song as plain text: a header, the chord split and the sheet verbatim.
func SheetText(song models.Song, known chords.KnownSet) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, song, chords.Diff(song.Chords, known), false)

	if song.ChordsAndLyrics == "" {
		buf.WriteString(noLyrics + "\n")
		return buf.Bytes()
	}
	buf.WriteString(song.ChordsAndLyrics)
	if !strings.HasSuffix(song.ChordsAndLyrics, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// SheetMarkdown exports a song as Markdown with the sheet in a fenced block so alignment survives.
func SheetMarkdown(song models.Song, known chords.KnownSet) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, song, chords.Diff(song.Chords, known), true)

	buf.WriteString("## Chords + Lyrics\n\n")
	if song.ChordsAndLyrics == "" {
		buf.WriteString("_" + noLyrics + "_\n")
		return buf.Bytes()
	}
	buf.WriteString("```\n")
	buf.WriteString(strings.TrimSuffix(song.ChordsAndLyrics, "\n"))
	buf.WriteString("\n```\n")
	return buf.Bytes()
}

// SongDocument is the JSON export of a song with its classified sheet.
type SongDocument struct {
	models.Song
	Partition chords.Partition      `json:"partition"`
	Lines     []chords.RenderedLine `json:"lines"`
}

// NewSongDocument classifies and renders song against known.
func NewSongDocument(song models.Song, known chords.KnownSet) SongDocument {
	lines := []chords.RenderedLine{}
	if song.ChordsAndLyrics != "" {
		lines = song.Sheet(known)
	}
	return SongDocument{Song: song, Partition: chords.Diff(song.Chords, known), Lines: lines}
}

// SheetJSON exports a song with per-line kinds and segments.
func SheetJSON(song models.Song, known chords.KnownSet) ([]byte, error) {
	return shared.MarshalJSON(NewSongDocument(song, known), true)
}

// Export renders song in format.
func Export(song models.Song, known chords.KnownSet, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return SheetText(song, known), nil
	case FormatMarkdown:
		return SheetMarkdown(song, known), nil
	case FormatJSON:
		return SheetJSON(song, known)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// Filename returns "{id}_{artist}_{title}.{ext}" with unsafe characters replaced.
func Filename(song models.Song, format Format) string {
	base := slug(song.Artist + " " + song.Name)
	if base == "" {
		return fmt.Sprintf("%d.%s", song.ID, format)
	}
	return fmt.Sprintf("%d_%s.%s", song.ID, base, format)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// WriteSongExport writes song into dir and returns the file path.
func WriteSongExport(song models.Song, known chords.KnownSet, format Format, dir string) (string, error) {
	data, err := Export(song, known, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(song, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

// ResultsCSV converts search results to CSV with columns: ID, Artist, Title, Genre, Rating, Ratings, Known, Missing
func ResultsCSV(results []models.SongSummary, known chords.KnownSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Artist", "Title", "Genre", "Rating", "Ratings", "Known", "Missing"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range results {
		p := s.Partition(known)
		rating := ""
		if s.RatingAverage != nil {
			rating = strconv.FormatFloat(*s.RatingAverage, 'f', 1, 64)
		}
		record := []string{
			strconv.Itoa(s.ID),
			s.Artist,
			s.Name,
			s.Genre,
			rating,
			strconv.Itoa(s.RatingCount),
			strings.Join(p.Known, " "),
			strings.Join(p.Missing, " "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
