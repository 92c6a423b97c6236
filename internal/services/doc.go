// Package services defines the [Recommender] interface for the chord recommender backend and implements it over HTTP.
//
// # Recommender Interface
//
// The backend owns matching, song storage and rating aggregation. This package only speaks its HTTP contract:
//   - GET /recommend?chords=&artist=&title=&genre= : ranked [models.SongSummary] list
//   - GET /song/{id} : full [models.Song] with chords-and-lyrics text
//   - POST /song/{id}/rate with {"rating": 1..5} : updated [models.RatingSummary]
//
// # HTTP Implementation
//
// [ChordService] sends context-aware requests throttled by a [rate.Limiter].
// Search results are truncated to a configured limit, mirroring the web UI which shows at most 50 songs.
//
// [ChordService.Raw] skips decoding and returns an [APIResponse] for debugging commands.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingArgument] : search without chords (never sent to the backend)
//   - [shared.ErrInvalidRating] : rating outside 1..5 (never sent to the backend)
//   - [shared.ErrSongNotFound] : backend answered 404
//   - [shared.ErrAPIRequest] : any other non-2xx answer, or a transport failure
//
// FastAPI error bodies carry a "detail" field, which is included in the error message when present.
package services
