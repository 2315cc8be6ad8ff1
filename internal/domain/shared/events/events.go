package events

import "time"

// DomainEvent is raised by an aggregate when something business-relevant
// happened and committed state should be announced to the outside.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Recorder collects pending events on an aggregate until the application
// layer drains them into the outbox.
type Recorder struct {
	pending []DomainEvent
}

func (r *Recorder) Record(ev DomainEvent) {
	if ev == nil {
		return
	}
	r.pending = append(r.pending, ev)
}

// Drain returns the pending events and clears the recorder.
func (r *Recorder) Drain() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
