// Package clipboard provides the clipboard copied links are written to.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when the host has no usable clipboard.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// Available reports whether the host running the app has a clipboard.
func Available() bool {
	return !clipboard.Unsupported
}

// System writes to the clipboard of the host running the app.
type System struct{}

// NewSystem returns the host clipboard.
func NewSystem() System {
	return System{}
}

// WriteText puts text on the host clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Memory is a process-local clipboard for headless runs.
type Memory struct {
	mu   sync.Mutex
	last string
	err  error
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// WriteText records text, or fails with the error set by FailWith.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.last = text
	return nil
}

// Last returns the most recently written text.
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// FailWith makes subsequent writes fail with err. A nil err restores writes.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
