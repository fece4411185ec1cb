package handlers

import (
	"push-tray/app"
	"push-tray/config"
	"push-tray/models"

	"github.com/gofiber/fiber/v2"
)

// GetSubscriptions lists all subscriptions with their unread counts
func GetSubscriptions(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscriptions, err := a.Manager.All()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscriptions", err)
		}

		return success(c, fiber.Map{"subscriptions": subscriptions})
	}
}

// GetSubscription retrieves a single subscription by id
func GetSubscription(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscription, err := a.Manager.Get(c.Params("id"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscription", err)
		}
		if subscription == nil {
			return notFound(c, "Subscription not found")
		}

		return success(c, fiber.Map{"subscription": subscription})
	}
}

// GetFirstSubscription returns an arbitrary subscription, used by the UI to
// pick a default selection on startup
func GetFirstSubscription(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscription, err := a.Manager.First()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscription", err)
		}
		if subscription == nil {
			return notFound(c, "No subscriptions exist")
		}

		return success(c, fiber.Map{"subscription": subscription})
	}
}

// CreateSubscription adds a subscription; repeating the same base URL and
// topic returns the existing row
func CreateSubscription(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.AddSubscriptionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		subscription, err := a.Manager.Add(req.BaseURL, req.Topic, req.Internal)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to add subscription", err)
		}

		return created(c, fiber.Map{"subscription": subscription})
	}
}

// DeleteSubscription removes a subscription and all of its notifications
func DeleteSubscription(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Manager.Remove(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to remove subscription", err)
		}

		return success(c, fiber.Map{"removed": true})
	}
}

// MuteSubscription sets the muted-until timestamp (0 unmutes)
func MuteSubscription(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.MuteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		if err := a.Manager.SetMutedUntil(c.Params("id"), req.MutedUntil); err != nil {
			return serverErrorWithDetails(c, "Failed to mute subscription", err)
		}

		return success(c, fiber.Map{"muted_until": req.MutedUntil})
	}
}

// SetDisplayName updates a subscription's display name
func SetDisplayName(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.DisplayNameRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		if err := a.Manager.SetDisplayName(c.Params("id"), req.DisplayName); err != nil {
			return serverErrorWithDetails(c, "Failed to set display name", err)
		}

		return success(c, fiber.Map{"display_name": req.DisplayName})
	}
}

// SetState updates the caller-defined subscription state
func SetState(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.StateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		if err := a.Manager.UpdateState(c.Params("id"), req.State); err != nil {
			return serverErrorWithDetails(c, "Failed to update state", err)
		}

		return success(c, fiber.Map{"state": req.State})
	}
}

// Sync reconciles local subscriptions against the remote account state
func Sync(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SyncRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		err := a.Manager.SyncFromRemote(req.Subscriptions, req.Reservations, config.AppConfig.DefaultBaseURL)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to sync subscriptions", err)
		}

		subscriptions, err := a.Manager.All()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscriptions", err)
		}

		return success(c, fiber.Map{"subscriptions": subscriptions})
	}
}
