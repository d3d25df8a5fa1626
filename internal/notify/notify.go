// Package notify delivers moderation outcomes to the platform's
// user-facing notification center.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mediamod/internal/models"
)

// Sink is the outbound notification channel. Implementations must treat
// Emit as best-effort; the moderation transition has already been committed
// by the time a sink sees the event.
type Sink interface {
	Emit(ctx context.Context, n models.Notification) error
}

// Dispatcher translates terminal moderation transitions into notifications
// and hands them to the sink asynchronously.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
}

// NewDispatcher creates a dispatcher around the given sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink, timeout: 10 * time.Second}
}

// NotifyItemApproved notifies the submitter that their media was approved.
func (d *Dispatcher) NotifyItemApproved(ctx context.Context, item *models.MediaItem) {
	label := kindLabel(item.Kind)
	d.send(models.Notification{
		ID:        uuid.New(),
		Kind:      models.NotificationApproved,
		Title:     fmt.Sprintf("Your %s was approved", label),
		Body:      fmt.Sprintf("Your %s passed moderation and is now visible.", label),
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		CreatedAt: time.Now(),
	})
}

// NotifyItemRejected notifies the submitter that their media was rejected,
// carrying the moderator's reason.
func (d *Dispatcher) NotifyItemRejected(ctx context.Context, item *models.MediaItem, reason string) {
	label := kindLabel(item.Kind)
	d.send(models.Notification{
		ID:            uuid.New(),
		Kind:          models.NotificationRejected,
		Title:         fmt.Sprintf("Your %s was rejected", label),
		Body:          fmt.Sprintf("Your %s did not pass moderation: %s", label, reason),
		ItemID:        item.ID,
		OwnerID:       item.OwnerID,
		ModeratorNote: reason,
		CreatedAt:     time.Now(),
	})
}

// send delivers asynchronously so the caller never blocks on the sink.
// Delivery failures are logged, never propagated.
func (d *Dispatcher) send(n models.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sink.Emit(ctx, n); err != nil {
			slog.Error("failed to deliver notification",
				"kind", n.Kind, "item_id", n.ItemID, "owner_id", n.OwnerID, "error", err)
		}
	}()
}

func kindLabel(kind string) string {
	switch kind {
	case models.KindAudioGreeting:
		return "audio greeting"
	case models.KindAvatar:
		return "avatar photo"
	case models.KindProfile:
		return "profile photo"
	case models.KindCatalog:
		return "catalog photo"
	default:
		return "media"
	}
}
