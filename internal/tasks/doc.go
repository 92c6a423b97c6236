// Package tasks runs long operations against the chord recommender with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.Export] fetches a list of songs and writes each one to an output directory:
//   - Songs are fetched by a pool of workers sharing one [rate.Limiter]
//   - Each song is rendered by the formatter package as txt, md or json
//   - A song that fails is recorded and the rest continue
//   - A manifest.json summarizing every result is written last
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking, so a slow reader only misses updates.
package tasks
