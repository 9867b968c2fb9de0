package services

import (
	"sync"

	"github.com/KenCooper2022/youtube-audio-downloader/internal/core/domain"
)

// Stream is the single-writer event channel for one download request. It
// guarantees ordered delivery, at most one terminal event, and
// non-decreasing percentages within the downloading phase. There is no
// replay: a consumer that disconnects loses the history.
type Stream struct {
	mu       sync.Mutex
	sink     func(domain.ProgressEvent)
	last     int
	terminal bool
}

// NewStream wraps a consumer callback. The callback is invoked in emission
// order and never after a terminal event.
func NewStream(sink func(domain.ProgressEvent)) *Stream {
	return &Stream{sink: sink}
}

// Emit delivers one event. Events after a terminal one are dropped.
// Downloading-phase percentages never regress, even when the acquisition
// engine restarts with a new client profile.
func (s *Stream) Emit(event domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal {
		return
	}
	if event.Phase == domain.PhaseDownloading && event.Progress < s.last {
		event.Progress = s.last
	}
	s.last = event.Progress
	if event.Phase.Terminal() {
		s.terminal = true
	}
	s.sink(event)
}

// Closed reports whether a terminal event has been emitted.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}
