package handlers

import (
	"errors"
	"fmt"
	"path/filepath"

	"points-exchange/middleware"
	"points-exchange/services"
	"points-exchange/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupProfileRoutes(app *fiber.App, auth *services.AuthService, profiles *services.ProfileService, referrals *services.ReferralService, ledger *services.LedgerService) {
	secured := app.Group("/", middleware.UserContextMiddleware(auth))

	secured.Get("/profiles/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		profile, err := profiles.Get(userID)
		if err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(profile)
	})

	secured.Put("/profiles/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.ProfileUpdate
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		profile, err := profiles.Get(userID)
		email := ""
		if err == nil {
			email = profile.Email
		}

		updated, err := profiles.Upsert(userID, email, req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
		return c.JSON(updated)
	})

	secured.Get("/profiles/referrals/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := referrals.Stats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch referral stats"})
		}
		return c.JSON(stats)
	})

	secured.Get("/transactions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit := c.QueryInt("limit", 10)

		txs, err := ledger.RecentTransactions(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
		}
		return c.JSON(txs)
	})

	// Avatar upload goes to R2; the stored URL lands on the profile row.
	secured.Post("/profiles/me/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}

		key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
		url, err := utils.UploadFileToR2(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
		}

		profile, err := profiles.Get(userID)
		email := ""
		if err == nil {
			email = profile.Email
		}
		if _, err := profiles.Upsert(userID, email, services.ProfileUpdate{AvatarURL: &url}); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
		return c.JSON(fiber.Map{"avatar_url": url})
	})
}
