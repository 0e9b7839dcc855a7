package handlers

import (
	"errors"

	"points-exchange/middleware"
	"points-exchange/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, auth *services.AuthService, profiles *services.ProfileService) {
	app.Post("/auth/signup", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		token, err := auth.SignUp(req.Email, req.Password)
		if err != nil {
			status := fiber.StatusBadRequest
			if errors.Is(err, services.ErrEmailTaken) {
				status = fiber.StatusConflict
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"access_token": token})
	})

	app.Post("/auth/signin", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		token, err := auth.SignIn(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "sign-in failed"})
		}
		return c.JSON(fiber.Map{"access_token": token})
	})

	// Session check: resolves the token to a user id and reports whether
	// the profile is completed. The client's session guard is built on
	// this single call.
	app.Get("/auth/session", middleware.UserContextMiddleware(auth), func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		profile, err := profiles.Get(userID)
		if err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				return c.JSON(fiber.Map{"user_id": userID, "profile_completed": false})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session check failed"})
		}

		profiles.TouchActive(userID)
		return c.JSON(fiber.Map{
			"user_id":           userID,
			"email":             profile.Email,
			"profile_completed": profile.Completed(),
		})
	})
}
