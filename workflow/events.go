package workflow

import "time"

type EventType string

const (
	EventProduct  EventType = "product"
	EventShot     EventType = "shot"
	EventRun      EventType = "run"
	EventWorkflow EventType = "workflow"
)

// Event describes one state transition of the session's workflow.
type Event struct {
	Type      EventType `json:"type"`
	Stage     string    `json:"stage,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	ShotID    string    `json:"shot_id,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// EventSink receives workflow events, keyed by session.
type EventSink interface {
	Publish(sessionID string, event Event)
}

type discardSink struct{}

func (discardSink) Publish(string, Event) {}
