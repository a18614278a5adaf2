package realtimefakes

import (
	"context"
	"sync"

	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
)

// Emitted is one recorded push.
type Emitted struct {
	ConnectionID string
	Event        wire.Outbound
}

// Emitter records pushes instead of writing to sockets.
type Emitter struct {
	mu     sync.Mutex
	Events []Emitted
	// FailFor makes pushes to the listed connections fail.
	FailFor map[string]error
	Journal *Journal
}

// NewEmitter returns an empty recording emitter.
func NewEmitter() *Emitter {
	return &Emitter{FailFor: map[string]error{}}
}

func (e *Emitter) Emit(_ context.Context, connectionID string, event wire.Outbound) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Journal.Record("emit:" + event.EventName() + ":" + connectionID)
	if err := e.FailFor[connectionID]; err != nil {
		return err
	}
	e.Events = append(e.Events, Emitted{ConnectionID: connectionID, Event: event})
	return nil
}

// For returns events pushed to one connection.
func (e *Emitter) For(connectionID string) []wire.Outbound {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []wire.Outbound
	for _, emitted := range e.Events {
		if emitted.ConnectionID == connectionID {
			out = append(out, emitted.Event)
		}
	}
	return out
}

// Count returns how many events named eventName reached connectionID.
func (e *Emitter) Count(connectionID, eventName string) int {
	count := 0
	for _, event := range e.For(connectionID) {
		if event.EventName() == eventName {
			count++
		}
	}
	return count
}

// Total returns how many events named eventName were pushed anywhere.
func (e *Emitter) Total(eventName string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, emitted := range e.Events {
		if emitted.Event.EventName() == eventName {
			count++
		}
	}
	return count
}
