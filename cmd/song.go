package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// knownFrom parses --chords. Each invocation starts a new session, so there is no earlier search to
// fall back to.
func (r *Runner) knownFrom(cmd *cli.Command) chords.KnownSet {
	return chords.ParseKnownSet(cmd.String("chords"))
}

// Song prints a song page with known chords highlighted.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	id, err := shared.ParseSongID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	known := r.knownFrom(cmd)

	if cmd.Bool("open") {
		target, err := shared.SongPageURL(r.config.Backend.WebURL, id)
		if err != nil {
			return err
		}
		r.logger.Info("opening song page", "url", target)
		if err := shared.OpenBrowser(target); err != nil {
			return err
		}
		return r.writePlain("Opened %s\n", target)
	}

	r.logger.Info("fetching song", "id", id)
	song, err := r.service.Song(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.NewSongDocument(*song, known), true)
	}

	if f := cmd.String("format"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return fmt.Errorf("%w: --format: %w", shared.ErrInvalidFlag, err)
		}
		data, err := formatter.Export(*song, known, format)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	return r.writePlain("%s\n", r.theme.SongSheet(*song, known))
}

// Rate submits a 1..5 star rating for a song.
func (r *Runner) Rate(ctx context.Context, cmd *cli.Command) error {
	id, err := shared.ParseSongID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	stars, err := parseStars(cmd.StringArg("stars"))
	if err != nil {
		return err
	}
	// Only trips when one Runner handles several commands; a fresh process has an empty session.
	if prev, ok := r.session.Rated(id); ok {
		return fmt.Errorf("%w: song %d (%d stars)", shared.ErrAlreadyRated, id, prev)
	}

	r.logger.Info("rating song", "id", id, "stars", stars)
	summary, err := r.service.Rate(ctx, id, stars)
	if err != nil {
		return err
	}
	if err := r.session.MarkRated(id, stars); err != nil {
		return err
	}
	r.session.UpdateRating(id, *summary)

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}

	avg := summary.Average
	return r.writePlain("✓ Rated song %d %s\n%s\n", id, r.theme.Stars(stars), r.theme.RatingLine(&avg, summary.Count))
}

func parseStars(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: stars", shared.ErrMissingArgument)
	}
	stars, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: stars %q", shared.ErrInvalidArgument, s)
	}
	if !models.ValidRating(stars) {
		return 0, fmt.Errorf("%w: got %d", shared.ErrInvalidRating, stars)
	}
	return stars, nil
}
