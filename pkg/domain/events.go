package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFetch   EventType = "fetch"
	EventExecute EventType = "execute"
	EventLoad    EventType = "load"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	LoadID    string    `json:"load_id"`
}

// LoadEvent describes one stage of a track load.
type LoadEvent struct {
	EventBase
	Track    string        `json:"track"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Outcome classifies the event for metrics and logs.
func (e *LoadEvent) Outcome() string {
	return Outcome(e.Err)
}

// LifecycleHooks defines callbacks for loader observability.
type LifecycleHooks struct {
	OnFetch   func(context.Context, *LoadEvent)
	OnExecute func(context.Context, *LoadEvent)
	OnLoad    func(context.Context, *LoadEvent)
}
