package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"mediamod/internal/classifier"
	"mediamod/internal/moderation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// domainError maps moderation domain errors to HTTP responses. Returns false
// if err is not a recognized domain error.
func domainError(c fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, moderation.ErrNotFound):
		return true, jsonError(c, fiber.StatusNotFound, "media item not found")
	case errors.Is(err, moderation.ErrDuplicateID):
		return true, jsonError(c, fiber.StatusConflict, "media item id already exists")
	case errors.Is(err, moderation.ErrInvalidTransition):
		return true, jsonError(c, fiber.StatusConflict, "item already processed")
	case errors.Is(err, moderation.ErrAlreadyProcessing):
		return true, jsonError(c, fiber.StatusConflict, "a classification is already in progress for this item")
	case errors.Is(err, moderation.ErrEmptyReason):
		return true, jsonError(c, fiber.StatusBadRequest, "a rejection reason is required")
	case errors.Is(err, moderation.ErrInvalidItem):
		return true, jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, classifier.ErrClassificationFailed):
		// Recoverable: the item stays pending, the caller may retry or
		// decide manually.
		return true, jsonError(c, fiber.StatusBadGateway, "classification failed, item left pending for manual review")
	}
	return false, nil
}
