package testutil

import (
	"context"
	"sync"

	"github.com/OwaisShaikh-8/Instant-Meal/events"
)

// Recorder is an events.Publisher that keeps every event it is handed and
// answers with Err.
type Recorder struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	return r.Err
}

func (r *Recorder) Types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
