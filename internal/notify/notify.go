// Package notify publishes build progress to the editor that requested the
// build. Events carry the build id so the editor can match output to a run.
package notify

import (
	"context"
	"time"
)

// Event names emitted to the editor.
const (
	EventStatus = "build_status"
	EventOutput = "build_output"
)

// Event is one notification.
type Event struct {
	Name    string
	BuildID string
	State   string
	Stage   string
	Text    string
	Time    time.Time
}

// Payload is the wire form sent to the editor.
func (e Event) Payload() map[string]any {
	p := map[string]any{
		"build_id": e.BuildID,
		"time":     e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.State != "" {
		p["state"] = e.State
	}
	if e.Stage != "" {
		p["stage"] = e.Stage
	}
	if e.Text != "" {
		p["text"] = e.Text
	}
	return p
}

// Publisher delivers events. Publishing is best effort and never fails a
// build.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close()
}

// Nop discards every event.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, Event) {}

// Close does nothing.
func (Nop) Close() {}
