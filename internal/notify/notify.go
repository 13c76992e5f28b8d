// Package notify queues the outcome of user actions as structured events
// that the UI polls and shows, instead of blocking alert dialogs.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Event struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Action  string    `json:"action"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Queue interface {
	Publish(ctx context.Context, e Event) error
	// Drain removes and returns up to max events, oldest first.
	Drain(ctx context.Context, max int) ([]Event, error)
}

func stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return e
}

// MemoryQueue keeps at most Cap events; the oldest are dropped first.
type MemoryQueue struct {
	mu     sync.Mutex
	events []Event
	cap    int
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 200
	}
	return &MemoryQueue{cap: capacity}
}

func (q *MemoryQueue) Publish(_ context.Context, e Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, stamp(e))
	if over := len(q.events) - q.cap; over > 0 {
		q.events = append([]Event(nil), q.events[over:]...)
	}
	return nil
}

func (q *MemoryQueue) Drain(_ context.Context, max int) ([]Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if max <= 0 || max > len(q.events) {
		max = len(q.events)
	}
	out := append([]Event{}, q.events[:max]...)
	q.events = q.events[max:]
	return out, nil
}
