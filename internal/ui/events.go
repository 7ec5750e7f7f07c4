package ui

import (
	"context"
	"fmt"

	"github.com/MikhailRaia/shortify/internal/metrics"
)

// State is the state of the submission flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSuccess, StateError},
	StateSuccess:    {StateSubmitting, StateIdle},
	StateError:      {StateIdle, StateSubmitting},
}

func (s State) canTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// EventType names a UI event.
type EventType string

const (
	EventLoad         EventType = "load"
	EventInput        EventType = "input"
	EventSubmit       EventType = "submit"
	EventReset        EventType = "reset"
	EventCopyResult   EventType = "copy_result"
	EventCopyHistory  EventType = "copy_history"
	EventClearHistory EventType = "clear_history"
)

// Event is one user action. Value carries the input text for EventInput and
// EventSubmit and the short code for EventCopyHistory. Copied marks copy
// events whose text the browser already put on the user's clipboard.
type Event struct {
	Type   EventType
	Value  string
	Copied bool
}

type handlerFunc func(ctx context.Context, evt Event) error

func (c *Controller) routes() map[EventType]handlerFunc {
	return map[EventType]handlerFunc{
		EventLoad:         c.load,
		EventInput:        c.setInput,
		EventSubmit:       c.submit,
		EventReset:        c.reset,
		EventCopyResult:   c.copyResult,
		EventCopyHistory:  c.copyHistory,
		EventClearHistory: c.clearHistory,
	}
}

// Dispatch runs the handler registered for evt.Type.
func (c *Controller) Dispatch(ctx context.Context, evt Event) error {
	handler, ok := c.handlers[evt.Type]
	if !ok {
		return fmt.Errorf("unknown event %q", evt.Type)
	}

	metrics.RecordUIEvent(string(evt.Type))
	return handler(ctx, evt)
}
