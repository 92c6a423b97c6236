// package services defines interface Recommender for interacting with the chord recommender API
package services

import (
	"context"

	"github.com/desertthunder/chordfinder/internal/models"
)

// Recommender defines the operations the client needs from the chord recommender backend.
type Recommender interface {
	// Recommend returns songs ranked by how few new chords they need, given the query's known chords.
	Recommend(ctx context.Context, query models.Query) ([]models.SongSummary, error)

	// Song retrieves a full song page by ID.
	Song(ctx context.Context, id int) (*models.Song, error)

	// Rate submits a 1..5 star rating and returns the updated aggregate.
	Rate(ctx context.Context, id, stars int) (*models.RatingSummary, error)

	// Name returns the name of the service
	Name() string
}
