package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"

	"mediamod/internal/models"
	"mediamod/internal/moderation"
)

// ModerationHandler exposes the moderation workflow as a JSON API.
type ModerationHandler struct {
	svc *moderation.Service
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(svc *moderation.Service) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// Submit accepts a new media item into the queue.
func (h *ModerationHandler) Submit(c fiber.Ctx) error {
	var body struct {
		ID          string `json:"id"`
		OwnerID     string `json:"owner_id"`
		OwnerName   string `json:"owner_name"`
		MediaRef    string `json:"media_ref"`
		Kind        string `json:"kind"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.svc.Submit(models.MediaItem{
		ID:          body.ID,
		OwnerID:     body.OwnerID,
		OwnerName:   body.OwnerName,
		MediaRef:    body.MediaRef,
		Kind:        body.Kind,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to submit item")
	}

	return jsonCreated(c, item)
}

// List returns one status partition of the queue. Defaults to pending.
func (h *ModerationHandler) List(c fiber.Ctx) error {
	status := c.Query("status", models.StatusPending)
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid status filter")
	}

	items := h.svc.Store().List(status)
	return jsonSuccess(c, fiber.Map{
		"status": status,
		"items":  items,
	})
}

// Counts returns the partition sizes, the only aggregate the UI needs.
func (h *ModerationHandler) Counts(c fiber.Ctx) error {
	return jsonSuccess(c, h.svc.Store().Counts())
}

// Get returns a single item by id.
func (h *ModerationHandler) Get(c fiber.Ctx) error {
	item, err := h.svc.Store().Get(c.Params("id"))
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch item")
	}
	return jsonSuccess(c, item)
}

// Approve manually approves a pending item.
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	item, err := h.svc.Approve(c.Context(), c.Params("id"), models.ViaManual)
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to approve item")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "item approved",
		"item":    item,
	})
}

// Reject manually rejects a pending item. The reason is mandatory and is
// carried to the submitter in the rejection notification.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	json.Unmarshal(c.Body(), &body) // form fallback below
	reason := body.Reason
	if reason == "" {
		reason = c.FormValue("reason")
	}

	item, err := h.svc.Reject(c.Context(), c.Params("id"), reason, models.ViaManual)
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to reject item")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "item rejected",
		"item":    item,
	})
}

// Undo reverts a terminal decision back to pending.
func (h *ModerationHandler) Undo(c fiber.Ctx) error {
	item, err := h.svc.Undo(c.Context(), c.Params("id"))
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to undo decision")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "decision reverted",
		"item":    item,
	})
}

// Classify triggers one AI classification pass for the item.
func (h *ModerationHandler) Classify(c fiber.Ctx) error {
	id := c.Params("id")
	item, err := h.svc.Classify(c.Context(), id)
	if err != nil {
		if handled, resp := domainError(c, err); handled {
			return resp
		}
		log.Printf("Classification error for item %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to classify item")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "classification completed",
		"item":    item,
	})
}
