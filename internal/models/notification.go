package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds map 1:1 to terminal moderation transitions.
const (
	NotificationApproved = "approved"
	NotificationRejected = "rejected"
)

// Notification is the message delivered to a submitter when their media
// reaches a terminal state. Undo and non-conclusive AI passes produce none.
type Notification struct {
	ID            uuid.UUID `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	ItemID        string    `json:"item_id"`
	OwnerID       string    `json:"owner_id"`
	ModeratorNote string    `json:"moderator_note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
