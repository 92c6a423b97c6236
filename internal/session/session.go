// Package session holds the state of one interactive search session.
//
// A [Session] is owned by its caller (a CLI invocation or a TUI program) and is never persisted.
// It remembers the last search, the chords the user says they know, the selected result and the ratings
// submitted so far, so a song can only be rated once per session.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
)

// Session is safe for concurrent use.
type Session struct {
	ID string

	mu       sync.RWMutex
	now      func() time.Time
	known    chords.KnownSet
	query    models.Query
	results  []models.SongSummary
	selected int
	ratings  map[int]int
	created  time.Time
	updated  time.Time
}

// New creates an empty session. A nil now uses [time.Now].
func New(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	ts := now()
	return &Session{
		ID:       shared.GenerateID(),
		now:      now,
		known:    chords.NewKnownSet(),
		selected: -1,
		ratings:  map[int]int{},
		created:  ts,
		updated:  ts,
	}
}

// RecordSearch stores a completed search and resets the selection.
func (s *Session) RecordSearch(query models.Query, results []models.SongSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.known = query.Known()
	s.results = append([]models.SongSummary{}, results...)
	s.selected = -1
	s.updated = s.now()
}

// Known returns the chords of the last search.
func (s *Session) Known() chords.KnownSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known
}

// Query returns the last search query.
func (s *Session) Query() models.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Results returns a copy of the last search results.
func (s *Session) Results() []models.SongSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SongSummary{}, s.results...)
}

// Select marks result i as the current one.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.results) {
		return fmt.Errorf("%w: result %d of %d", shared.ErrInvalidArgument, i, len(s.results))
	}
	s.selected = i
	s.updated = s.now()
	return nil
}

// Selected returns the current result, if any.
func (s *Session) Selected() (models.SongSummary, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected < 0 || s.selected >= len(s.results) {
		return models.SongSummary{}, -1, false
	}
	return s.results[s.selected], s.selected, true
}

// MarkRated records a rating. Rating the same song twice fails with [shared.ErrAlreadyRated].
func (s *Session) MarkRated(songID, stars int) error {
	if !models.ValidRating(stars) {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, stars)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.ratings[songID]; ok {
		return fmt.Errorf("%w: song %d (%d stars)", shared.ErrAlreadyRated, songID, prev)
	}
	s.ratings[songID] = stars
	s.updated = s.now()
	return nil
}

// Rated reports the stars submitted for a song during this session.
func (s *Session) Rated(songID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stars, ok := s.ratings[songID]
	return stars, ok
}

// UpdateRating refreshes the aggregate shown for a song in the stored results.
func (s *Session) UpdateRating(songID int, summary models.RatingSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.results {
		if s.results[i].ID == songID {
			avg := summary.Average
			s.results[i].RatingAverage = &avg
			s.results[i].RatingCount = summary.Count
		}
	}
}

// Reset clears everything except the ID and creation time.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.known = chords.NewKnownSet()
	s.query = models.Query{}
	s.results = nil
	s.selected = -1
	s.ratings = map[int]int{}
	s.updated = s.now()
}

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time { return s.created }

// UpdatedAt returns the time of the last change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
