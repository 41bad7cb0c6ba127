package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad     EventType = "load"
	EventInvoke   EventType = "invoke"
	EventAction   EventType = "action"
	EventComplete EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Plugin    string    `json:"plugin"`
}

// LoadEvent reports the outcome of loading a plugin unit.
type LoadEvent struct {
	EventBase
	Dir      string        `json:"dir,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// InvokeEvent is emitted right before the entry point is called.
type InvokeEvent struct {
	EventBase
	// WithAPI reports whether the two-argument call shape was chosen.
	WithAPI bool `json:"with_api"`
}

// ActionEvent is emitted for every action in the final list, in order.
type ActionEvent struct {
	EventBase
	Action Action `json:"action"`
}

// CompleteEvent closes an invocation, successful or not.
type CompleteEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Actions  int           `json:"actions"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for bridge observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnLoad     func(context.Context, *LoadEvent)
	OnInvoke   func(context.Context, *InvokeEvent)
	OnAction   func(context.Context, *ActionEvent)
	OnComplete func(context.Context, *CompleteEvent)
}
