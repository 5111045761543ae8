package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-backoffice/internal/middleware"
	"go-backoffice/internal/service"
)

// actorFrom reads the authenticated user placed in Locals by RequireAuth.
func actorFrom(c *fiber.Ctx) service.Actor {
	var actor service.Actor
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	actor.UserName, _ = c.Locals(middleware.LocalUserName).(string)
	actor.Email, _ = c.Locals(middleware.LocalUserEmail).(string)
	return actor
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}
