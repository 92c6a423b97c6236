package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/chordfinder/internal/chords"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/urfave/cli/v3"
)

// searchRow is a search result with its chords split against the query.
type searchRow struct {
	models.SongSummary
	Partition chords.Partition `json:"partition"`
}

func (r *Runner) queryFrom(cmd *cli.Command) models.Query {
	q := models.Query{
		Chords: strings.TrimSpace(cmd.String("chords")),
		Artist: strings.TrimSpace(cmd.String("artist")),
		Title:  strings.TrimSpace(cmd.String("title")),
		Genre:  strings.TrimSpace(cmd.String("genre")),
	}
	if q.Genre == "" {
		q.Genre = r.config.Search.Genre
	}
	return q
}

// search runs a query, records it in the session and applies the --limit flag.
func (r *Runner) search(ctx context.Context, q models.Query, limit int) ([]models.SongSummary, error) {
	if q.Genre != "" && !slices.Contains(models.Genres, q.Genre) {
		r.logger.Warn("genre is not one the web UI offers", "genre", q.Genre, "known", strings.Join(models.Genres, ", "))
	}

	r.logger.Info("searching", "service", r.service.Name(), "chords", q.Chords, "artist", q.Artist, "title", q.Title, "genre", q.Genre)
	results, err := r.service.Recommend(ctx, q)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	r.session.RecordSearch(q, results)
	r.logger.Debug("search complete", "session", r.session.ID, "results", len(results))
	return results, nil
}

// Search finds songs playable with the given chords.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	q := r.queryFrom(cmd)
	results, err := r.search(ctx, q, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	known := r.session.Known()

	switch {
	case cmd.Bool("json"):
		rows := make([]searchRow, len(results))
		for i, s := range results {
			rows[i] = searchRow{SongSummary: s, Partition: s.Partition(known)}
		}
		return r.writeJSON(rows, true)
	case cmd.Bool("csv"):
		data, err := formatter.ResultsCSV(results, known)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	if err := r.writePlain("%s\n\n", r.theme.ResultCount(len(results), true)); err != nil {
		return err
	}
	for _, s := range results {
		id := r.theme.Muted.Render(fmt.Sprintf("#%d", s.ID))
		if err := r.writePlain("%s %s\n\n", id, r.theme.ResultCard(s, known)); err != nil {
			return err
		}
	}
	return nil
}
