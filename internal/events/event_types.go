package events

import (
	"time"

	"github.com/spec-kit/bloodbound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProfileCreated EventType = "profile_created"
	EventProfileUpdated EventType = "profile_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Collection domain.Collection `json:"collection"`
	Email      string            `json:"email"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// ProfileCreatedPayload payload.
type ProfileCreatedPayload struct {
	Role         domain.Role `json:"role"`
	Availability string      `json:"availability,omitempty"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	Role          domain.Role `json:"role"`
	UpdatedFields []string    `json:"updated_fields"`
}
