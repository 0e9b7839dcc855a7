package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"points-exchange/middleware"
	"points-exchange/models"
	"points-exchange/services"
	"points-exchange/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupStreamRoutes exposes the change-notification stream. The client
// subscribes here to refresh a displayed balance without re-polling: the
// server watches the caller's profile row and emits a `profile` event
// whenever it changes.
func SetupStreamRoutes(app *fiber.App, auth *services.AuthService, db *gorm.DB, log *utils.Logger) {
	app.Get("/profiles/me/stream", middleware.SSEAuthMiddleware(auth), func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()

			var lastUpdatedAt time.Time

			// Initialize cursor so only changes after subscribing stream out.
			var current models.Profile
			if err := db.First(&current, "id = ?", userID).Error; err == nil {
				lastUpdatedAt = current.UpdatedAt
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Errorf("SSE init error for user %s: %v", userID, err)
			}

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case <-ticker.C:
					var profile models.Profile
					err := db.
						Where("id = ? AND updated_at > ?", userID, lastUpdatedAt).
						First(&profile).Error
					if err != nil {
						if !errors.Is(err, gorm.ErrRecordNotFound) {
							log.Errorf("SSE query error for user %s: %v", userID, err)
						}
						continue
					}

					lastUpdatedAt = profile.UpdatedAt

					payload, _ := json.Marshal(profile)
					fmt.Fprintf(w, "event: profile\ndata: %s\n\n", payload)

					if err := w.Flush(); err != nil {
						// Client disconnected
						return
					}

				case <-c.Context().Done():
					return
				}
			}
		})

		return nil
	})
}
