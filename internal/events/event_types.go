package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventUserUpdated         EventType = "user_updated"
	EventUserBusinessChanged EventType = "user_business_changed"
	EventUserDeleted         EventType = "user_deleted"
	EventCardCreated         EventType = "card_created"
	EventCardUpdated         EventType = "card_updated"
	EventCardDeleted         EventType = "card_deleted"
	EventCardLikeToggled     EventType = "card_like_toggled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	IsBusiness bool `json:"is_business"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	PasswordChanged bool `json:"password_changed"`
}

// UserBusinessChangedPayload payload.
type UserBusinessChangedPayload struct {
	IsBusiness bool `json:"is_business"`
}

// CardPayload identifies the card owner.
type CardPayload struct {
	OwnerID string `json:"owner_id"`
}

// CardLikeToggledPayload payload.
type CardLikeToggledPayload struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"total_likes"`
}
