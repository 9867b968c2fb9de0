package ports

import "context"

// ProgressFunc receives normalized overall-operation percentages with a
// human-readable message while audio is being acquired.
type ProgressFunc func(percent int, message string)

// Acquirer pulls raw audio for a video into destPath, trying client
// profiles in order until one succeeds. The subprocess lifetime is bound
// to ctx: cancellation kills a running extraction.
type Acquirer interface {
	Acquire(ctx context.Context, videoID, destPath string, onProgress ProgressFunc) error
}
