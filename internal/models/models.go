// package models defines the data model for the chord recommender client
package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/chordfinder/internal/chords"
)

// Genres are the broad buckets the backend assigns, in the order it checks them.
var Genres = []string{
	"Metal", "Rock", "Pop", "Hip Hop", "R&B / Soul", "Country", "Jazz",
	"Blues", "Electronic", "Folk", "Classical", "Reggae", "Latin", "Other",
}

// Query holds the search inputs for a recommendation request.
type Query struct {
	Chords string `json:"chords"` // Comma separated chords the user knows, e.g. "C, G, Am"
	Artist string `json:"artist,omitempty"`
	Title  string `json:"title,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// Known parses the chord input into a [chords.KnownSet].
func (q Query) Known() chords.KnownSet {
	return chords.ParseKnownSet(q.Chords)
}

// Empty reports whether no chords were entered.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Chords) == ""
}

// Values encodes the query for GET /recommend.
//
// Optional filters are left out when blank.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("chords", q.Chords)
	if q.Artist != "" {
		v.Set("artist", q.Artist)
	}
	if q.Title != "" {
		v.Set("title", q.Title)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	return v
}

// SongSummary is one search result.
type SongSummary struct {
	ID            int      `json:"song_id"`
	Artist        string   `json:"artist_name"`
	Name          string   `json:"song_name"`
	Chords        []string `json:"chord_list"`
	Genre         string   `json:"genre"`
	RatingAverage *float64 `json:"rating_average"`
	RatingCount   int      `json:"rating_count"`
}

// Label returns "Artist — Title".
func (s SongSummary) Label() string {
	return fmt.Sprintf("%s — %s", s.Artist, s.Name)
}

// Partition diffs the song's chords against known.
func (s SongSummary) Partition(known chords.KnownSet) chords.Partition {
	return chords.Diff(s.Chords, known)
}

// Song is a full song page.
type Song struct {
	ID              int      `json:"song_id"`
	Artist          string   `json:"artist_name"`
	Name            string   `json:"song_name"`
	Chords          []string `json:"chord_list"`
	ChordsAndLyrics string   `json:"chords_and_lyrics"`
	Genre           string   `json:"genre,omitempty"`
	RatingAverage   *float64 `json:"rating_average"`
	RatingCount     int      `json:"rating_count"`
}

// Summary drops the song text.
func (s Song) Summary() SongSummary {
	return SongSummary{
		ID:            s.ID,
		Artist:        s.Artist,
		Name:          s.Name,
		Chords:        s.Chords,
		Genre:         s.Genre,
		RatingAverage: s.RatingAverage,
		RatingCount:   s.RatingCount,
	}
}

// Sheet renders the chords-and-lyrics text against known.
func (s Song) Sheet(known chords.KnownSet) []chords.RenderedLine {
	return chords.RenderSheet(s.ChordsAndLyrics, known)
}

// ApplyRating copies an updated aggregate onto the song.
func (s *Song) ApplyRating(r RatingSummary) {
	avg := r.Average
	s.RatingAverage = &avg
	s.RatingCount = r.Count
}

// RatingRequest is the body of POST /song/{id}/rate.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// RatingSummary is the aggregate returned after rating a song.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// MinRating and MaxRating bound a star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether stars is within [MinRating, MaxRating].
func ValidRating(stars int) bool {
	return stars >= MinRating && stars <= MaxRating
}
