package ui

import (
	"sync"
	"time"

	"github.com/MikhailRaia/shortify/internal/metrics"
)

// DefaultToastDelay is how long a toast stays visible.
const DefaultToastDelay = 3 * time.Second

// ToastKind styles a toast.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification.
type Toast struct {
	Message string    `json:"message"`
	Kind    ToastKind `json:"kind"`
}

// ToastSlot holds at most one toast. A new toast replaces the visible one
// and restarts the dismissal delay.
type ToastSlot struct {
	mu      sync.Mutex
	delay   time.Duration
	current *Toast
	timer   *time.Timer
	seq     uint64
}

// NewToastSlot creates an empty slot that dismisses toasts after delay.
func NewToastSlot(delay time.Duration) *ToastSlot {
	if delay <= 0 {
		delay = DefaultToastDelay
	}
	return &ToastSlot{delay: delay}
}

// Show displays message, replacing any visible toast.
func (s *ToastSlot) Show(message string, kind ToastKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &Toast{Message: message, Kind: kind}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == seq {
			s.current = nil
		}
	})

	metrics.RecordToast(string(kind))
}

// Current returns the visible toast, if any.
func (s *ToastSlot) Current() (Toast, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Toast{}, false
	}
	return *s.current, true
}

// Stop hides the toast and cancels the pending dismissal.
func (s *ToastSlot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.current = nil
}
