// package tasks implements bulk song export against the chord recommender.
//
// The core abstraction is Exporter, which fetches songs concurrently and writes them to disk.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/services"
	"github.com/desertthunder/chordfinder/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// ManifestName is written into the output directory after every export.
	ManifestName   = "manifest.json"
	defaultWorkers = 4
	maxWorkers     = 10
	defaultRate    = 5.0
)

// ExportOpts contains configuration for bulk song exports.
type ExportOpts struct {
	Format            formatter.Format // txt, md or json
	OutputDir         string           // Base output directory (default: chordfinder_export_{epoch})
	Workers           int              // Concurrent workers (default: 4, at most 10)
	RequestsPerSecond float64          // Backend requests per second (default: 5)
	Known             chords.KnownSet  // Chords to highlight as known
}

// SongExportResult is the outcome for a single song.
type SongExportResult struct {
	SongID  int      `json:"song_id"`
	Label   string   `json:"label"`
	File    string   `json:"file,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// ExportResult summarizes a bulk export. It is also the manifest format.
type ExportResult struct {
	Format          formatter.Format   `json:"format"`
	OutputDirectory string             `json:"output_directory"`
	Known           []string           `json:"known"`
	Total           int                `json:"total"`
	Succeeded       int                `json:"succeeded"`
	Failed          int                `json:"failed"`
	Results         []SongExportResult `json:"results"`
	ExportedAt      time.Time          `json:"exported_at"`
	ManifestPath    string             `json:"-"`
}

// Exporter writes songs from a [services.Recommender] to disk.
type Exporter struct {
	svc services.Recommender
	now func() time.Time
}

// NewExporter creates an Exporter backed by svc.
func NewExporter(svc services.Recommender) *Exporter {
	return &Exporter{svc: svc, now: time.Now}
}

type exportJob struct {
	index int
	id    int
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export fetches and writes every song in ids using a rate limited worker pool.
//
// A song that fails to fetch or write is recorded in the result and does not stop the others.
// The manifest is written even when ctx is canceled part way through.
func (e *Exporter) Export(ctx context.Context, progress chan<- ProgressUpdate, ids []int, opts ExportOpts) (*ExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: recommender not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no song ids to export", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("chordfinder_export_%d", e.now().Unix())
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(ids)
	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Known:           opts.Known.Sorted(),
		Total:           total,
		Results:         make([]SongExportResult, total),
	}

	e.sendProgress(progress, prepareUpdate(total, opts.OutputDir))

	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	jobs := make(chan exportJob)
	done := make(chan int, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, progress, limiter, jobs, done, result, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			result.Results[i] = SongExportResult{SongID: id, Label: fmt.Sprintf("song %d", id)}
			select {
			case <-ctx.Done():
				for j := i; j < total; j++ {
					result.Results[j] = SongExportResult{SongID: ids[j], Label: fmt.Sprintf("song %d", ids[j]), Error: ctx.Err().Error()}
					done <- j
				}
				return
			case jobs <- exportJob{index: i, id: id}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for idx := range done {
		completed++
		res := result.Results[idx]
		if res.Success {
			result.Succeeded++
			e.sendProgress(progress, exportCompletedUpdate(completed, total, res))
		} else {
			result.Failed++
			e.sendProgress(progress, exportFailedUpdate(completed, total, res))
		}
	}

	result.ExportedAt = e.now()
	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	e.sendProgress(progress, manifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// exportWorker exports songs from the jobs channel. Each worker owns the result slots of its jobs.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	progress chan<- ProgressUpdate,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	done chan<- int,
	result *ExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	total := len(result.Results)
	for job := range jobs {
		e.sendProgress(progress, fetchSongUpdate(job.index+1, total, job.id))
		result.Results[job.index] = e.exportSong(ctx, limiter, job, opts)
		done <- job.index
	}
}

func (e *Exporter) exportSong(ctx context.Context, limiter *rate.Limiter, j exportJob, opts ExportOpts) SongExportResult {
	res := SongExportResult{SongID: j.id, Label: fmt.Sprintf("song %d", j.id)}

	if err := limiter.Wait(ctx); err != nil {
		res.Error = err.Error()
		return res
	}

	song, err := e.svc.Song(ctx, j.id)
	if err != nil {
		res.Error = fmt.Sprintf("failed to fetch song: %v", err)
		return res
	}
	res.Label = song.Summary().Label()
	res.Missing = chords.Diff(song.Chords, opts.Known).Missing

	path, err := formatter.WriteSongExport(*song, opts.Known, opts.Format, opts.OutputDir)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = path
	res.Success = true
	return res
}

func writeManifest(result *ExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
