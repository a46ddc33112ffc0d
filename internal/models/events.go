package models

import "time"

type EventType string

const (
	EventTypeApplicationSubmitted EventType = "application.submitted"
	EventTypeApplicationAccepted  EventType = "application.accepted"
	EventTypeApplicationDeclined  EventType = "application.declined"
	EventTypeProjectCreated       EventType = "project.created"
	EventTypeProfileUpdated       EventType = "profile.updated"
	EventTypeMessageSent          EventType = "message.sent"
)

// Event is what gets published onto the projectmate.events exchange. The
// routing key is the event type.
type Event struct {
	EventType EventType      `json:"eventType"`
	UserID    string         `json:"userId,omitempty"`
	ProjectID string         `json:"projectId,omitempty"`
	EntityID  string         `json:"entityId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}
