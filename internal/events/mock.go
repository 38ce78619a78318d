package events

import (
	"context"
	"sync"
)

// RecordingPublisher keeps every published envelope in memory.
// Set Err to make Publish fail.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Envelope
	Err    error
}

// Publish implements Publisher.
func (p *RecordingPublisher) Publish(ctx context.Context, env Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, env)
	return nil
}

// Close implements Publisher.
func (p *RecordingPublisher) Close() error { return nil }

// Published returns a copy of the recorded envelopes.
func (p *RecordingPublisher) Published() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Envelope(nil), p.Events...)
}
