package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/desertthunder/chordfinder/internal/tasks"
	tu "github.com/desertthunder/chordfinder/internal/testing"
)

const wonderwall = "Em7  G\nToday is gonna be the day\nDsus4  A7sus4\nThat they're gonna throw it back to you\n"

func mockRecommender() *tu.MockRecommender {
	return &tu.MockRecommender{
		Results: []models.SongSummary{
			{ID: 1, Artist: "Oasis", Name: "Wonderwall", Chords: []string{"Em7", "G", "Dsus4", "A7sus4"}, Genre: "Rock", RatingAverage: tu.Float(4.2), RatingCount: 3},
			{ID: 2, Artist: "Ben E. King", Name: "Stand By Me", Chords: []string{"G", "Em", "C", "D"}, Genre: "Soul"},
		},
		Songs: map[int]models.Song{
			1: {ID: 1, Artist: "Oasis", Name: "Wonderwall", Chords: []string{"Em7", "G", "Dsus4", "A7sus4"}, ChordsAndLyrics: wonderwall, Genre: "Rock"},
			2: {ID: 2, Artist: "Ben E. King", Name: "Stand By Me", Chords: []string{"G", "Em", "C", "D"}, ChordsAndLyrics: "G  Em\nWhen the night"},
		},
		Summary: models.RatingSummary{Average: 4.5, Count: 2},
	}
}

type harness struct {
	runner *Runner
	svc    *tu.MockRecommender
	out    *bytes.Buffer
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	h := &harness{svc: mockRecommender(), out: &bytes.Buffer{}, logs: &bytes.Buffer{}}
	h.runner = NewRunner(RunnerOpts{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Service:    h.svc,
		Logger:     shared.NewLogger(h.logs),
		Output:     h.out,
		Input:      strings.NewReader(input),
	})
	return h
}

// run executes args against a fresh app sharing the harness runner, so session state carries over.
func (h *harness) run(args ...string) error {
	return newApp(h.runner).Run(context.Background(), append([]string{"chordfinder", "--config", h.runner.configPath}, args...))
}

func TestSearchCommand(t *testing.T) {
	t.Run("prints result cards", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("search", "--chords", "G, Em7"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.out.String()
		for _, want := range []string{"2 songs found", "#1", "Oasis", "Wonderwall", "#2", "Stand By Me"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %s", want, out)
			}
		}
		if len(h.svc.Queries) != 1 || h.svc.Queries[0].Chords != "G, Em7" {
			t.Errorf("expected query to be forwarded, got %+v", h.svc.Queries)
		}
		if !h.runner.session.Known().Contains("Em7") {
			t.Error("expected session to record known chords")
		}
	})

	t.Run("no results", func(t *testing.T) {
		h := newHarness(t, "")
		h.svc.Results = nil
		if err := h.run("search", "-k", "C"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), "No songs found. Try different chords or filters.") {
			t.Errorf("expected empty message, got %s", h.out.String())
		}
	})

	t.Run("json includes partition", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("search", "--chords", "G,Em", "--json", "--limit", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var rows []searchRow
		if err := json.Unmarshal(h.out.Bytes(), &rows); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, h.out.String())
		}
		if len(rows) != 1 {
			t.Fatalf("expected --limit to keep 1 row, got %d", len(rows))
		}
		if got := strings.Join(rows[0].Partition.Missing, " "); got != "Em7 Dsus4 A7sus4" {
			t.Errorf("expected missing chords in song order, got %q", got)
		}
	})

	t.Run("csv", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("search", "--chords", "G", "--csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d: %s", len(lines), h.out.String())
		}
		if !strings.HasPrefix(lines[0], "ID,Artist,Title") {
			t.Errorf("unexpected header %q", lines[0])
		}
	})

	t.Run("genre defaults to config", func(t *testing.T) {
		h := newHarness(t, "")
		h.runner.config.Search.Genre = "Rock"
		if err := h.run("search", "--chords", "G"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.svc.Queries[0].Genre != "Rock" {
			t.Errorf("expected genre from config, got %q", h.svc.Queries[0].Genre)
		}
	})

	t.Run("backend error", func(t *testing.T) {
		h := newHarness(t, "")
		h.svc.Err = shared.ErrAPIRequest
		if err := h.run("search", "--chords", "G"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSongCommand(t *testing.T) {
	t.Run("styled sheet", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("song", "--chords", "G", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		for _, want := range []string{"Wonderwall", "Chords Used", "Today is gonna be the day"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %s", want, out)
			}
		}
	})

	t.Run("without --chords every chord is new", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("song", "--json", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var doc struct {
			Partition struct {
				Known   []string `json:"known"`
				Missing []string `json:"missing"`
			} `json:"partition"`
		}
		if err := json.Unmarshal(h.out.Bytes(), &doc); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(doc.Partition.Known) != 0 || len(doc.Partition.Missing) != 4 {
			t.Errorf("expected all 4 chords missing, got %+v", doc.Partition)
		}
	})

	t.Run("format txt", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("song", "--format", "txt", "--chords", "G,Em,C,D", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(h.out.String(), "Ben E. King - Stand By Me\n") {
			t.Errorf("unexpected text export: %q", h.out.String())
		}
	})

	t.Run("json document", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("song", "--json", "--chords", "G", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var doc struct {
			ID    int `json:"song_id"`
			Lines []struct {
				Kind string `json:"kind"`
			} `json:"lines"`
		}
		if err := json.Unmarshal(h.out.Bytes(), &doc); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if doc.ID != 1 || len(doc.Lines) == 0 {
			t.Fatalf("unexpected document %+v", doc)
		}
		if doc.Lines[0].Kind != "chord" || doc.Lines[1].Kind != "lyric" {
			t.Errorf("expected chord then lyric line, got %+v", doc.Lines[:2])
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{name: "missing id", args: []string{"song"}, want: shared.ErrMissingArgument},
			{name: "non numeric id", args: []string{"song", "abc"}, want: shared.ErrInvalidArgument},
			{name: "unknown song", args: []string{"song", "404"}, want: shared.ErrSongNotFound},
			{name: "bad format", args: []string{"song", "--format", "pdf", "1"}, want: shared.ErrInvalidFlag},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newHarness(t, "")
				if err := h.run(tt.args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("open without web url", func(t *testing.T) {
		h := newHarness(t, "")
		h.runner.config.Backend.WebURL = ""
		if err := h.run("song", "--open", "1"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestRateCommand(t *testing.T) {
	t.Run("rates once per session", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("rate", "1", "4"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		if !strings.Contains(out, "Rated song 1") || !strings.Contains(out, "4.5 ★ · 2 ratings") {
			t.Errorf("unexpected output %q", out)
		}
		if h.svc.Ratings[1] != 4 {
			t.Errorf("expected rating sent to backend, got %v", h.svc.Ratings)
		}

		if err := h.run("rate", "1", "5"); !errors.Is(err, shared.ErrAlreadyRated) {
			t.Errorf("expected ErrAlreadyRated, got %v", err)
		}
		if h.svc.Ratings[1] != 4 {
			t.Error("expected second rating not to reach the backend")
		}
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("rate", "--json", "2", "3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var summary models.RatingSummary
		if err := json.Unmarshal(h.out.Bytes(), &summary); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if summary.Average != 4.5 || summary.Count != 2 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("failed rating is not recorded", func(t *testing.T) {
		h := newHarness(t, "")
		h.svc.Err = shared.ErrAPIRequest
		if err := h.run("rate", "1", "4"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if _, ok := h.runner.session.Rated(1); ok {
			t.Error("expected session not to mark a failed rating")
		}
	})

	t.Run("invalid stars", func(t *testing.T) {
		tests := []struct {
			stars string
			want  error
		}{
			{"0", shared.ErrInvalidRating},
			{"6", shared.ErrInvalidRating},
			{"three", shared.ErrInvalidArgument},
			{"", shared.ErrMissingArgument},
		}

		for _, tt := range tests {
			t.Run(tt.stars, func(t *testing.T) {
				h := newHarness(t, "")
				args := []string{"rate", "1"}
				if tt.stars != "" {
					args = append(args, tt.stars)
				}
				if err := h.run(args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				if len(h.svc.Ratings) != 0 {
					t.Error("expected no backend call")
				}
			})
		}
	})
}

func TestSheetCommand(t *testing.T) {
	t.Run("reads stdin", func(t *testing.T) {
		h := newHarness(t, wonderwall)
		if err := h.run("sheet", "--chords", "G", "--json", "-"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var doc sheetDocument
		if err := json.Unmarshal(h.out.Bytes(), &doc); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if got := strings.Join(doc.Vocabulary, " "); got != "Em7 G Dsus4 A7sus4" {
			t.Errorf("expected vocabulary in first-appearance order, got %q", got)
		}
		if got := strings.Join(doc.Partition.Known, " "); got != "G" {
			t.Errorf("expected known G, got %q", got)
		}
		if len(doc.Lines) != 5 {
			t.Fatalf("expected 5 lines including the trailing blank, got %d", len(doc.Lines))
		}
		if doc.Lines[0].Kind != chords.ChordLine || doc.Lines[1].Kind != chords.LyricLine {
			t.Errorf("expected chord then lyric line, got %v %v", doc.Lines[0].Kind, doc.Lines[1].Kind)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "song.txt")
		if err := os.WriteFile(path, []byte(wonderwall), 0644); err != nil {
			t.Fatalf("failed to write sheet: %v", err)
		}

		h := newHarness(t, "")
		if err := h.run("sheet", "--chords", "Em7,G,Dsus4,A7sus4", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		if !strings.Contains(out, "You know all chords") || !strings.Contains(out, "throw it back to you") {
			t.Errorf("unexpected output %s", out)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("sheet", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var doc sheetDocument
		if err := json.Unmarshal(h.out.Bytes(), &doc); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(doc.Vocabulary) != 0 {
			t.Errorf("expected no chords, got %v", doc.Vocabulary)
		}
		if len(doc.Lines) != 1 || doc.Lines[0].Text() != "" {
			t.Errorf("expected a single empty line, got %+v", doc.Lines)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		h := newHarness(t, "")
		err := h.run("sheet", filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("ids to markdown", func(t *testing.T) {
		h := newHarness(t, "")
		dir := filepath.Join(t.TempDir(), "out")
		if err := h.run("export", "--ids", "1,2", "--format", "md", "--output", dir, "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var result tasks.ExportResult
		if err := json.Unmarshal(h.out.Bytes(), &result); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, h.out.String())
		}
		if result.Total != 2 || result.Succeeded != 2 {
			t.Errorf("expected 2/2 succeeded, got %d/%d", result.Succeeded, result.Total)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "1_oasis-wonderwall.md"))
		tu.AssertFileExists(t, filepath.Join(dir, tasks.ManifestName))
	})

	t.Run("search results with partial failure", func(t *testing.T) {
		h := newHarness(t, "")
		h.svc.Results = append(h.svc.Results, models.SongSummary{ID: 404, Artist: "Nobody", Name: "Missing"})
		dir := t.TempDir()
		if err := h.run("export", "--search", "G, Em", "--output", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.out.String()
		if !strings.Contains(out, "Exported 2/3 songs") || !strings.Contains(out, "1 failed") {
			t.Errorf("unexpected summary %q", out)
		}
		if !strings.Contains(h.logs.String(), "song export failed") {
			t.Error("expected failed songs to be logged")
		}
		tu.AssertFileExists(t, filepath.Join(dir, "2_ben-e-king-stand-by-me.txt"))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{name: "no targets", args: []string{"export"}, want: shared.ErrMissingArgument},
			{name: "both targets", args: []string{"export", "--ids", "1", "--search", "G"}, want: shared.ErrInvalidArgument},
			{name: "bad ids", args: []string{"export", "--ids", "1,x"}, want: shared.ErrInvalidArgument},
			{name: "bad format", args: []string{"export", "--ids", "1", "--format", "pdf"}, want: shared.ErrInvalidFlag},
			{name: "zero workers", args: []string{"export", "--ids", "1", "--workers", "0"}, want: shared.ErrInvalidFlag},
			{name: "negative workers", args: []string{"export", "--ids", "1", "--workers=-2"}, want: shared.ErrInvalidFlag},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newHarness(t, "")
				if err := h.run(tt.args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestConfigCommand(t *testing.T) {
	t.Run("init writes example file", func(t *testing.T) {
		h := newHarness(t, "")
		path := filepath.Join(t.TempDir(), "chordfinder.toml")
		if err := h.run("config", "init", "--path", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(h.out.String(), path) {
			t.Errorf("expected path in output, got %q", h.out.String())
		}

		if err := h.run("config", "init", "--path", path); err == nil {
			t.Error("expected error when file already exists")
		}
	})

	t.Run("show prints toml", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("config", "show"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := h.out.String()
		if !strings.Contains(out, "[backend]") || !strings.Contains(out, `base_url = "http://127.0.0.1:8000"`) {
			t.Errorf("unexpected config output %s", out)
		}
	})
}

func TestAPICommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/song/1/rate":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"received":` + string(body) + `}`))
		case "/health":
			w.Write([]byte("ok"))
		case "/recommend":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"song_id":1}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not Found"}`))
		}
	}))
	defer server.Close()

	newAPIHarness := func(t *testing.T) *harness {
		h := newHarness(t, "")
		config := shared.DefaultConfig()
		config.Backend.BaseURL = server.URL
		h.runner = NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: h.runner.configPath,
			Logger:     shared.NewLogger(h.logs),
			Output:     h.out,
		})
		return h
	}

	t.Run("get pretty JSON", func(t *testing.T) {
		h := newAPIHarness(t)
		if err := h.run("api", "get", "/recommend?chords=G"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), `"song_id": 1`) {
			t.Errorf("expected indented JSON, got %s", h.out.String())
		}
	})

	t.Run("get compact JSON", func(t *testing.T) {
		h := newAPIHarness(t)
		if err := h.run("api", "get", "--compact", "recommend"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != `[{"song_id":1}]`+"\n" {
			t.Errorf("expected compact JSON, got %q", h.out.String())
		}
	})

	t.Run("get plain body", func(t *testing.T) {
		h := newAPIHarness(t)
		if err := h.run("api", "get", "/health"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.out.String() != "ok\n" {
			t.Errorf("expected raw body, got %q", h.out.String())
		}
	})

	t.Run("get non-2xx", func(t *testing.T) {
		h := newAPIHarness(t)
		err := h.run("api", "get", "/missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status in error, got %v", err)
		}
	})

	t.Run("post JSON", func(t *testing.T) {
		h := newAPIHarness(t)
		if err := h.run("api", "post", "--data", `{"rating":5}`, "/song/1/rate"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.out.String(), `"rating": 5`) {
			t.Errorf("expected echoed body, got %s", h.out.String())
		}
	})

	t.Run("post invalid JSON", func(t *testing.T) {
		h := newAPIHarness(t)
		if err := h.run("api", "post", "-d", "{rating", "/song/1/rate"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unsupported recommender", func(t *testing.T) {
		h := newHarness(t, "")
		if err := h.run("api", "get", "/health"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
