package ui

import (
	"sync"

	"github.com/playegkro/egk-updater/internal/install"
)

// State carries workflow progress onto the UI goroutine. Status changes are
// posted in order; progress updates are coalesced so at most one is pending
// and the latest value wins.
type State struct {
	post       func(func())
	onStatus   func(string)
	onProgress func(float64)

	mu       sync.Mutex
	progress float64
	pending  bool
}

// NewState creates a State. post runs a function on the UI goroutine (fyne.Do in the app).
func NewState(post func(func()), onStatus func(string), onProgress func(float64)) *State {
	return &State{post: post, onStatus: onStatus, onProgress: onProgress}
}

// SetStatus implements install.Reporter
func (s *State) SetStatus(status install.Status) {
	text := status.String()
	s.post(func() { s.onStatus(text) })
}

// SetProgress implements install.Reporter
func (s *State) SetProgress(fraction float64) {
	s.mu.Lock()
	s.progress = fraction
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	s.post(func() {
		s.mu.Lock()
		v := s.progress
		s.pending = false
		s.mu.Unlock()
		s.onProgress(v)
	})
}
