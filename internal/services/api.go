// Chord recommender API [Recommender] implementation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://127.0.0.1:8000"

var _ Recommender = (*ChordService)(nil)

// ServiceOpts configures a [ChordService].
type ServiceOpts struct {
	BaseURL           string        // Backend root, defaults to http://127.0.0.1:8000
	HTTPClient        *http.Client  // Defaults to a client with Timeout
	Timeout           time.Duration // Ignored when HTTPClient is set
	RequestsPerSecond float64       // Zero or less disables throttling
	Limit             int           // Maximum search results kept, zero keeps all
}

// ChordService implements [Recommender] over HTTP.
type ChordService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	limit      int
}

// NewChordService creates a new chord recommender client.
func NewChordService(opts ServiceOpts) *ChordService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		if opts.Timeout > 0 {
			opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
		} else {
			opts.HTTPClient = http.DefaultClient
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &ChordService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		limit:      opts.Limit,
	}
}

// Name returns the service name.
func (c *ChordService) Name() string {
	return "Chord Recommender"
}

// BaseURL returns the backend root the client talks to.
func (c *ChordService) BaseURL() string {
	return c.baseURL
}

// Recommend searches for songs playable with the query's chords.
//
// Calls GET /recommend. A query without chords is rejected before any request is made.
func (c *ChordService) Recommend(ctx context.Context, query models.Query) ([]models.SongSummary, error) {
	if query.Empty() {
		return nil, fmt.Errorf("%w: at least one chord is required", shared.ErrMissingArgument)
	}

	var results []models.SongSummary
	endpoint := "/recommend?" + query.Values().Encode()
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}

	if results == nil {
		results = []models.SongSummary{}
	}
	if c.limit > 0 && len(results) > c.limit {
		results = results[:c.limit]
	}

	return results, nil
}

// Song retrieves a full song page.
//
// Calls GET /song/{id}.
func (c *ChordService) Song(ctx context.Context, id int) (*models.Song, error) {
	var song models.Song
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/song/%d", id), nil, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Rate submits a star rating for a song.
//
// Calls POST /song/{id}/rate with {"rating": stars}.
func (c *ChordService) Rate(ctx context.Context, id, stars int) (*models.RatingSummary, error) {
	if !models.ValidRating(stars) {
		return nil, fmt.Errorf("%w: got %d", shared.ErrInvalidRating, stars)
	}

	var summary models.RatingSummary
	body := models.RatingRequest{Rating: stars}
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/song/%d/rate", id), body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *ChordService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// statusError converts a non-2xx response into a typed error, including FastAPI's detail when present.
func statusError(resp *http.Response) error {
	sentinel := shared.ErrAPIRequest
	if resp.StatusCode == http.StatusNotFound {
		sentinel = shared.ErrSongNotFound
	}

	var errResp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && len(errResp.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(errResp.Detail, &detail); err != nil {
			detail = string(errResp.Detail)
		}
		return fmt.Errorf("%w (status %d): %s", sentinel, resp.StatusCode, detail)
	}

	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Raw performs a request against the backend and returns the undecoded response.
//
// Non-2xx statuses are not treated as errors. A nil body sends no payload.
func (c *ChordService) Raw(ctx context.Context, method, path string, body []byte) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
