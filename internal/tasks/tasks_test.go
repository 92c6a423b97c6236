package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
	tu "github.com/desertthunder/chordfinder/internal/testing"
)

func mockSongs() map[int]models.Song {
	return map[int]models.Song{
		1: {ID: 1, Artist: "Oasis", Name: "Wonderwall", Chords: []string{"Em7", "G"}, ChordsAndLyrics: "Em7  G\nToday is gonna be"},
		2: {ID: 2, Artist: "Ben E. King", Name: "Stand By Me", Chords: []string{"G", "Em", "C", "D"}, ChordsAndLyrics: "G  Em\nWhen the night"},
		3: {ID: 3, Artist: "R.E.M.", Name: "Losing My Religion", Chords: []string{"Am", "Em"}},
	}
}

func drain(ch chan ProgressUpdate) <-chan []ProgressUpdate {
	out := make(chan []ProgressUpdate, 1)
	go func() {
		var updates []ProgressUpdate
		for u := range ch {
			updates = append(updates, u)
		}
		out <- updates
	}()
	return out
}

func readManifest(t *testing.T, dir string) ExportResult {
	t.Helper()
	var manifest ExportResult
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, filepath.Join(dir, ManifestName))), &manifest); err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}
	return manifest
}

func TestExporter(t *testing.T) {
	t.Run("Export", func(t *testing.T) {
		tests := []struct {
			name      string
			format    formatter.Format
			ids       []int
			workers   int
			wantOK    int
			wantFiles []string
		}{
			{
				name:      "single song text export",
				format:    formatter.FormatText,
				ids:       []int{1},
				workers:   1,
				wantOK:    1,
				wantFiles: []string{"1_oasis-wonderwall.txt"},
			},
			{
				name:      "multiple songs markdown export",
				format:    "markdown",
				ids:       []int{1, 2, 3},
				workers:   2,
				wantOK:    3,
				wantFiles: []string{"1_oasis-wonderwall.md", "2_ben-e-king-stand-by-me.md", "3_r-e-m-losing-my-religion.md"},
			},
			{
				name:      "json export with too many workers",
				format:    formatter.FormatJSON,
				ids:       []int{2, 3},
				workers:   50,
				wantOK:    2,
				wantFiles: []string{"2_ben-e-king-stand-by-me.json", "3_r-e-m-losing-my-religion.json"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				exporter := NewExporter(&tu.MockRecommender{Songs: mockSongs()})

				progress := make(chan ProgressUpdate, 100)
				updates := drain(progress)

				result, err := exporter.Export(context.Background(), progress, tt.ids, ExportOpts{
					Format:            tt.format,
					OutputDir:         dir,
					Workers:           tt.workers,
					RequestsPerSecond: 100,
					Known:             chords.NewKnownSet("G"),
				})
				close(progress)

				if err != nil {
					t.Fatalf("Export() error = %v", err)
				}
				if result.Total != len(tt.ids) || result.Succeeded != tt.wantOK || result.Failed != 0 {
					t.Errorf("unexpected counts %+v", result)
				}
				for i, res := range result.Results {
					if res.SongID != tt.ids[i] {
						t.Errorf("result %d: expected song %d, got %d", i, tt.ids[i], res.SongID)
					}
				}
				for _, f := range tt.wantFiles {
					tu.AssertFileExists(t, filepath.Join(dir, f))
				}

				if result.ManifestPath != filepath.Join(dir, ManifestName) {
					t.Errorf("unexpected manifest path %s", result.ManifestPath)
				}
				manifest := readManifest(t, dir)
				if manifest.Total != len(tt.ids) || manifest.Succeeded != tt.wantOK {
					t.Errorf("unexpected manifest %+v", manifest)
				}
				if len(manifest.Known) != 1 || manifest.Known[0] != "G" {
					t.Errorf("expected known chords in manifest, got %v", manifest.Known)
				}

				got := <-updates
				if len(got) == 0 || got[0].Phase != Prepare || got[len(got)-1].Phase != WriteManifest {
					t.Errorf("unexpected progress updates %+v", got)
				}
			})
		}
	})

	t.Run("Partial Failures", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewExporter(&tu.MockRecommender{Songs: mockSongs()})

		result, err := exporter.Export(context.Background(), nil, []int{1, 404, 3}, ExportOpts{
			OutputDir:         dir,
			Workers:           2,
			RequestsPerSecond: 100,
		})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		if result.Succeeded != 2 || result.Failed != 1 {
			t.Errorf("expected 2 succeeded and 1 failed, got %+v", result)
		}
		failed := result.Results[1]
		if failed.Success || !strings.Contains(failed.Error, "failed to fetch song") {
			t.Errorf("unexpected failed result %+v", failed)
		}
		if result.Results[0].Missing == nil || result.Results[0].Label != "Oasis — Wonderwall" {
			t.Errorf("unexpected first result %+v", result.Results[0])
		}

		manifest := readManifest(t, dir)
		if manifest.Failed != 1 || manifest.Results[1].Error == "" {
			t.Errorf("expected failure in manifest, got %+v", manifest)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewExporter(&tu.MockRecommender{Songs: mockSongs()})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := exporter.Export(ctx, nil, []int{1, 2, 3}, ExportOpts{OutputDir: dir, RequestsPerSecond: 100})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Succeeded != 0 || result.Failed != 3 {
			t.Fatalf("expected every song to fail, got %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(dir, ManifestName))
	})

	t.Run("Default Output Directory", func(t *testing.T) {
		t.Chdir(t.TempDir())

		exporter := NewExporter(&tu.MockRecommender{Songs: mockSongs()})
		result, err := exporter.Export(context.Background(), nil, []int{1}, ExportOpts{})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if !strings.HasPrefix(result.OutputDirectory, "chordfinder_export_") {
			t.Errorf("unexpected output directory %s", result.OutputDirectory)
		}
		if result.Format != formatter.FormatText {
			t.Errorf("expected txt default, got %s", result.Format)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name     string
			exporter *Exporter
			ids      []int
			opts     ExportOpts
			wantErr  error
		}{
			{"nil service", NewExporter(nil), []int{1}, ExportOpts{}, shared.ErrServiceUnavailable},
			{"no ids", NewExporter(&tu.MockRecommender{}), nil, ExportOpts{}, shared.ErrMissingArgument},
			{"bad format", NewExporter(&tu.MockRecommender{}), []int{1}, ExportOpts{Format: "pdf"}, shared.ErrInvalidArgument},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.exporter.Export(context.Background(), nil, tt.ids, tt.opts)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("Unwritable Output Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		exporter := NewExporter(&tu.MockRecommender{Songs: mockSongs()})
		_, err := exporter.Export(context.Background(), nil, []int{1}, ExportOpts{OutputDir: filepath.Join(file, "sub")})
		if err == nil || !strings.Contains(err.Error(), "failed to create output directory") {
			t.Errorf("expected directory error, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Prepare, "prepare"},
		{FetchSong, "fetch_song"},
		{WriteSong, "write_song"},
		{WriteManifest, "write_manifest"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
