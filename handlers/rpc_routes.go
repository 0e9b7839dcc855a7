package handlers

import (
	"errors"

	"points-exchange/middleware"
	"points-exchange/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetupRPCRoutes exposes the named procedures the client invokes for
// balance-changing actions. Validation errors carry distinguishable
// message text the client matches on.
func SetupRPCRoutes(app *fiber.App, auth *services.AuthService, rewards *services.RewardService, referrals *services.ReferralService) {
	secured := app.Group("/rpc", middleware.UserContextMiddleware(auth))

	secured.Post("/claim_ad_reward", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := rewards.ClaimAdReward(userID); err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to claim reward"})
		}
		return c.JSON(fiber.Map{"message": "Reward claimed successfully", "amount": services.AdRewardPoints})
	})

	secured.Post("/claim_follow_reward", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ChannelID string `json:"channel_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if _, err := uuid.Parse(req.ChannelID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid channel ID"})
		}

		if err := rewards.ClaimFollowReward(userID, req.ChannelID); err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyClaimed):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrChannelNotFound),
				errors.Is(err, services.ErrChannelInactive),
				errors.Is(err, services.ErrOwnChannel):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to claim reward"})
			}
		}
		return c.JSON(fiber.Map{"message": "Reward claimed successfully", "amount": services.FollowRewardPoints})
	})

	secured.Post("/set_referrer", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ReferralCode string `json:"referral_code"`
		}
		if err := c.BodyParser(&req); err != nil || req.ReferralCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "referral_code is required"})
		}

		if err := referrals.SetReferrer(userID, req.ReferralCode); err != nil {
			switch {
			case errors.Is(err, services.ErrSelfReferral),
				errors.Is(err, services.ErrInvalidReferralCode),
				errors.Is(err, services.ErrReferrerAlreadySet):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to set referrer"})
			}
		}
		return c.JSON(fiber.Map{"message": "Referral code applied successfully"})
	})
}
