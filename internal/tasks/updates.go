package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Prepare Phase = iota
	FetchSong
	WriteSong
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case Prepare:
		return "prepare"
	case FetchSong:
		return "fetch_song"
	case WriteSong:
		return "write_song"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func prepareUpdate(total int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Prepare,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d songs to %s...", total, dir),
	}
}

func fetchSongUpdate(step, total, id int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching song %d...", step, total, id),
	}
}

func exportCompletedUpdate(step, total int, res SongExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Label),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res SongExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Label, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s...", path),
	}
}
