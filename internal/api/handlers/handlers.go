package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// userIDFromCtx reads the authenticated user set by the auth middleware.
// Every core operation is scoped to this identity; session resolution stays
// in the request layer.
func userIDFromCtx(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return userID, nil
}
