package handlers

import (
	"errors"

	"points-exchange/middleware"
	"points-exchange/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupChannelRoutes(app *fiber.App, auth *services.AuthService, channels *services.ChannelService) {
	secured := app.Group("/", middleware.UserContextMiddleware(auth))

	secured.Get("/channels", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		scope := c.Query("scope", "earnable")
		limit := c.QueryInt("limit", 20)

		switch scope {
		case "mine":
			list, err := channels.Mine(userID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch channels"})
			}
			return c.JSON(list)
		case "earnable":
			list, err := channels.Earnable(userID, limit)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch channels"})
			}
			return c.JSON(list)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown scope"})
		}
	})

	secured.Post("/channels", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.ChannelInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		channel, err := channels.Create(userID, req)
		if err != nil {
			if errors.Is(err, services.ErrInsufficientBalance) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(channel)
	})

	secured.Patch("/channels/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		channelID := c.Params("id")
		if _, err := uuid.Parse(channelID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
		}

		var req struct {
			Active *bool `json:"active"`
		}
		if err := c.BodyParser(&req); err != nil || req.Active == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active flag is required"})
		}

		channel, err := channels.SetActive(userID, channelID, *req.Active)
		if err != nil {
			return channelError(c, err)
		}
		return c.JSON(channel)
	})

	secured.Delete("/channels/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		channelID := c.Params("id")
		if _, err := uuid.Parse(channelID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
		}

		if err := channels.Delete(userID, channelID); err != nil {
			return channelError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Channel deleted successfully"})
	})
}

func channelError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrChannelNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Channel not found"})
	case errors.Is(err, services.ErrNotChannelOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
}
