package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// sheetDocument is the JSON form of a rendered local sheet.
type sheetDocument struct {
	Vocabulary []string              `json:"vocabulary"`
	Partition  chords.Partition      `json:"partition"`
	Lines      []chords.RenderedLine `json:"lines"`
}

func (r *Runner) readSheet(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return string(data), nil
}

// Sheet renders a local chord sheet, highlighting known chords, without calling the backend.
func (r *Runner) Sheet(ctx context.Context, cmd *cli.Command) error {
	text, err := r.readSheet(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	known := r.knownFrom(cmd)
	vocab := chords.Vocabulary(text)
	part := chords.Diff(vocab, known)
	r.logger.Debug("rendered sheet", "chords", len(vocab), "missing", len(part.Missing))

	if cmd.Bool("json") {
		lines := chords.RenderSheet(text, known)
		return r.writeJSON(sheetDocument{Vocabulary: vocab, Partition: part, Lines: lines}, true)
	}

	if err := r.writePlain("%s  %s\n\n", r.theme.Chips(part), r.theme.Badge(part)); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.theme.Sheet(text, known))
}
