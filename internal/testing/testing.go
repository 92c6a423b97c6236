// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
)

// MockRecommender is a test double for [services.Recommender].
//
// Songs are served from the Songs map; Results is returned for every search.
type MockRecommender struct {
	mu        sync.Mutex
	Results   []models.SongSummary
	Songs     map[int]models.Song
	Summary   models.RatingSummary
	Err       error
	Queries   []models.Query
	Ratings   map[int]int
	SongCalls int
}

func (m *MockRecommender) Recommend(ctx context.Context, q models.Query) ([]models.SongSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, q)
	return m.Results, m.Err
}

func (m *MockRecommender) Song(ctx context.Context, id int) (*models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SongCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	song, ok := m.Songs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", shared.ErrSongNotFound, id)
	}
	return &song, nil
}

func (m *MockRecommender) Rate(ctx context.Context, id, stars int) (*models.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Ratings == nil {
		m.Ratings = map[int]int{}
	}
	m.Ratings[id] = stars
	summary := m.Summary
	return &summary, nil
}

func (m *MockRecommender) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Float returns a pointer to f, for optional rating averages.
func Float(f float64) *float64 { return &f }
