package tasks

import (
	"fmt"

	"github.com/desertthunder/dzx/internal/models"
	"github.com/dustin/go-humanize"
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
	ResolveTarget Phase = iota
	ResolveTrack
	DownloadTrack
	SkipTrack
	FailTrack
	Finished
)

func (p Phase) String() string {
	switch p {
	case ResolveTarget:
		return "resolve_target"
	case ResolveTrack:
		return "resolve_track"
	case DownloadTrack:
		return "download_track"
	case SkipTrack:
		return "skip_track"
	case FailTrack:
		return "fail_track"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func resolvingTargetUpdate(target models.MediaIdentification) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Message: fmt.Sprintf("Resolving %s %s...", target.Type, target.ID),
		Data:    target,
	}
}

func foundTracksUpdate(total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Total:   total,
		Message: fmt.Sprintf("Found %s (%s)", name, pluralTracks(total)),
	}
}

func resolvingTrackUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving track %s...", step, total, id),
	}
}

func downloadedUpdate(step, total int, res *TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Label(), humanize.Bytes(uint64(res.Size))),
		Data:    res,
	}
}

func skippedUpdate(step, total int, res *TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s: %s", step, total, res.Label(), res.Track.Error),
		Data:    res,
	}
}

func failedUpdate(step, total int, res *TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FailTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Label(), res.Err),
		Data:    res,
	}
}

func finishedUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finished,
		Step:  len(result.Tracks),
		Total: len(result.Tracks),
		Message: fmt.Sprintf("Done: %d downloaded (%s), %d skipped, %d failed",
			result.Delivered, humanize.Bytes(uint64(result.Bytes)), result.Skipped, result.Failed),
		Data: result,
	}
}

func pluralTracks(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}
