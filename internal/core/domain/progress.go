package domain

// Phase names one stage of a download request's lifecycle.
type Phase string

const (
	PhasePending     Phase = "pending"
	PhaseDownloading Phase = "downloading"
	PhaseProcessing  Phase = "processing"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
)

// Terminal reports whether the phase ends the stream.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// ProgressEvent is one discrete message on a download's event stream.
// The final event of a stream is always complete or error.
type ProgressEvent struct {
	VideoID  string         `json:"videoId"`
	Progress int            `json:"progress"`
	Phase    Phase          `json:"phase"`
	Message  string         `json:"message"`
	FinalURL string         `json:"downloadUrl,omitempty"`
	Song     *FinalMetadata `json:"song,omitempty"`
}
