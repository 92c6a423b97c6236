// Package models defines the song and rating types exchanged with the chord recommender backend.
//
// The backend is a separate HTTP service. Its JSON payloads map onto:
//   - [SongSummary] : one entry of a GET /recommend result list
//   - [Song] : the full song page from GET /song/{id}, including the chords-and-lyrics text
//   - [RatingSummary] : the updated aggregate returned by POST /song/{id}/rate
//   - [Query] : the search inputs sent to /recommend
//
// Ratings are aggregated by the backend; rating_average is null until a song has been rated.
package models
