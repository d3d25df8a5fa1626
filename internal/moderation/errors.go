package moderation

import "errors"

// Domain-level moderation error sentinels.
var (
	ErrNotFound          = errors.New("media item not found")
	ErrDuplicateID       = errors.New("media item id already exists")
	ErrInvalidTransition = errors.New("operation not valid in the item's current status")
	ErrEmptyReason       = errors.New("a rejection reason is required")
	ErrInvalidItem       = errors.New("invalid media item")
	ErrAlreadyProcessing = errors.New("a classification is already in flight for this item")
)
