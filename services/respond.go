// services/respond.go
package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bounty-board-service/utils"
)

// respondError maps the error taxonomy to a structured {code, message}
// body. Unauthorized and invalid-signature both come back 401 — callers
// learn the code, not which verification step failed.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, utils.ErrNotFound):
		status, message = fiber.StatusNotFound, "not found"
	case errors.Is(err, utils.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, "request rejected"
	case errors.Is(err, utils.ErrInvalidSignature):
		status, message = fiber.StatusUnauthorized, "request rejected"
	case errors.Is(err, utils.ErrUpstream):
		status, message = fiber.StatusBadGateway, "upstream unavailable, retry later"
	case errors.Is(err, utils.ErrIndexingTimeout):
		status, message = fiber.StatusGatewayTimeout, "indexing timed out, try refreshing"
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    utils.ErrorCode(err),
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    "bad_request",
		"message": message,
	})
}
