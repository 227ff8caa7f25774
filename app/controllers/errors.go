package controllers

import (
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindRejected:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// errorJSON writes the {"error","message"} body used by every API failure.
func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// respondError translates a service error into an API response.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	status := HTTPStatus(kind)
	message := apperror.MessageOf(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		if env.IsDev() {
			message = err.Error()
		}
	}
	return errorJSON(c, status, string(kind), message)
}
