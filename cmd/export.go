package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/desertthunder/chordfinder/internal/tasks"
	"github.com/urfave/cli/v3"
)

// exportTargets resolves the songs to export from --ids or from a --search query.
func (r *Runner) exportTargets(ctx context.Context, cmd *cli.Command) ([]int, chords.KnownSet, error) {
	ids := strings.TrimSpace(cmd.String("ids"))
	query := strings.TrimSpace(cmd.String("search"))

	switch {
	case ids != "" && query != "":
		return nil, nil, fmt.Errorf("%w: cannot specify both --ids and --search", shared.ErrInvalidArgument)
	case ids != "":
		parsed, err := shared.ParseSongIDs(ids)
		if err != nil {
			return nil, nil, err
		}
		return parsed, r.knownFrom(cmd), nil
	case query != "":
		results, err := r.search(ctx, models.Query{Chords: query, Genre: r.config.Search.Genre}, 0)
		if err != nil {
			return nil, nil, err
		}
		if len(results) == 0 {
			return nil, nil, fmt.Errorf("%w: no songs found for %q", shared.ErrInvalidArgument, query)
		}
		out := make([]int, len(results))
		for i, s := range results {
			out[i] = s.ID
		}
		known := r.knownFrom(cmd)
		if known.Len() == 0 {
			known = chords.ParseKnownSet(query)
		}
		return out, known, nil
	default:
		return nil, nil, fmt.Errorf("%w: either --ids or --search must be provided", shared.ErrMissingArgument)
	}
}

// Export writes songs to disk with a worker pool and prints a summary.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	ids, known, err := r.exportTargets(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:            formatter.Format(r.config.Export.Format),
		OutputDir:         r.config.Export.OutputDir,
		Workers:           r.config.Export.Workers,
		RequestsPerSecond: r.config.Export.RequestsPerSecond,
		Known:             known,
	}
	if cmd.IsSet("format") {
		format, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return fmt.Errorf("%w: --format: %w", shared.ErrInvalidFlag, err)
		}
		opts.Format = format
	}
	if cmd.IsSet("output") {
		opts.OutputDir = cmd.String("output")
	}
	if cmd.IsSet("workers") {
		workers := int(cmd.Int("workers"))
		if workers < 1 {
			return fmt.Errorf("%w: --workers must be at least 1, got %d", shared.ErrInvalidFlag, workers)
		}
		opts.Workers = workers
	}

	logger := shared.WithLogger(r.logger, "op", "export")
	progress := make(chan tasks.ProgressUpdate, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for u := range progress {
			logger.Info(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result, err := r.exporter.Export(ctx, progress, ids, opts)
	close(progress)
	<-drained
	if err != nil && result == nil {
		return err
	}

	for _, res := range result.Results {
		if !res.Success {
			logger.Warn("song export failed", "id", res.SongID, "error", res.Error)
		}
	}

	if cmd.Bool("json") {
		if werr := r.writeJSON(result, true); werr != nil {
			return werr
		}
		return err
	}

	r.writePlain("✓ Exported %d/%d %s to %s\n", result.Succeeded, result.Total, shared.Pluralize(result.Total, "song"), result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlain("✗ %d failed\n", result.Failed)
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return err
}
