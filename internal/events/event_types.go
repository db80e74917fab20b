package events

import (
	"time"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItemCreated       EventType = "item_created"
	EventItemUpdated       EventType = "item_updated"
	EventItemClaimed       EventType = "item_claimed"
	EventItemUnclaimed     EventType = "item_unclaimed"
	EventItemStatusChanged EventType = "item_status_changed"
	EventItemDeleted       EventType = "item_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ItemID    string      `json:"item_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ItemCreatedPayload payload.
type ItemCreatedPayload struct {
	Category       domain.ItemCategory   `json:"category"`
	Location       string                `json:"location"`
	SubmissionType domain.SubmissionType `json:"submission_type"`
	Title          string                `json:"title"`
}

// ItemClaimedPayload payload.
type ItemClaimedPayload struct {
	FinderID     string  `json:"finder_id"`
	ClaimerID    string  `json:"claimer_id"`
	ClaimMessage *string `json:"claim_message,omitempty"`
}

// ItemUnclaimedPayload payload.
type ItemUnclaimedPayload struct {
	FinderID          string  `json:"finder_id"`
	PreviousClaimerID *string `json:"previous_claimer_id,omitempty"`
}

// ItemStatusChangedPayload payload.
type ItemStatusChangedPayload struct {
	OldStatus domain.ItemStatus `json:"old_status"`
	NewStatus domain.ItemStatus `json:"new_status"`
	Notes     *string           `json:"notes,omitempty"`
}

// ItemDeletedPayload payload.
type ItemDeletedPayload struct {
	Title    string            `json:"title"`
	Status   domain.ItemStatus `json:"status"`
	FinderID string            `json:"finder_id"`
}
