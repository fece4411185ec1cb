package handlers

import (
	"push-tray/app"
	"push-tray/models"
	"push-tray/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetNotifications lists a subscription's notifications, most recent first
func GetNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notifications, err := a.Manager.GetNotifications(c.Params("id"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notifications", err)
		}

		return success(c, fiber.Map{"notifications": notifications})
	}
}

// GetAllNotifications lists notifications across all subscriptions
func GetAllNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notifications, err := a.Manager.GetAllNotifications()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notifications", err)
		}

		return success(c, fiber.Map{"notifications": notifications})
	}
}

// CreateNotification stores a notification under a subscription. Duplicate
// ids are a no-op, reported in the response rather than as an error.
func CreateNotification(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscriptionID := c.Params("id")

		subscription, err := a.Manager.Get(subscriptionID)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscription", err)
		}
		if subscription == nil {
			return notFound(c, "Subscription not found")
		}

		var req models.AddNotificationRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		if req.ID == "" {
			req.ID = uuid.New().String()
		}

		notification := models.Notification{
			ID:       req.ID,
			Time:     req.Time,
			Title:    req.Title,
			Message:  req.Message,
			Priority: req.Priority,
			Tags:     req.Tags,
		}

		added, err := a.Manager.AddNotification(subscriptionID, notification)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to add notification", err)
		}
		if !added {
			return success(c, fiber.Map{"added": false, "id": req.ID})
		}

		return created(c, fiber.Map{"added": true, "id": req.ID})
	}
}

// CreateNotifications bulk-upserts notifications for a subscription. The
// caller supplies them oldest first; the last one becomes the subscription's
// most recent notification.
func CreateNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscriptionID := c.Params("id")

		subscription, err := a.Manager.Get(subscriptionID)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch subscription", err)
		}
		if subscription == nil {
			return notFound(c, "Subscription not found")
		}

		var reqs []models.AddNotificationRequest
		if err := c.BodyParser(&reqs); err != nil {
			return badRequest(c, "Invalid request body")
		}

		notifications := make([]models.Notification, 0, len(reqs))
		for _, req := range reqs {
			if err := a.Validator.Validate(req); err != nil {
				return badRequest(c, err.Error())
			}
			if req.ID == "" {
				req.ID = uuid.New().String()
			}
			notifications = append(notifications, models.Notification{
				ID:       req.ID,
				Time:     req.Time,
				New:      1,
				Title:    req.Title,
				Message:  req.Message,
				Priority: req.Priority,
				Tags:     req.Tags,
			})
		}

		if err := a.Manager.AddNotifications(subscriptionID, notifications); err != nil {
			if err == services.ErrEmptyNotificationList {
				return badRequest(c, "Notification list must not be empty")
			}
			return serverErrorWithDetails(c, "Failed to add notifications", err)
		}

		return created(c, fiber.Map{"added": len(notifications)})
	}
}

// UpdateNotification replaces an existing notification
func UpdateNotification(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var notification models.Notification
		if err := c.BodyParser(&notification); err != nil {
			return badRequest(c, "Invalid request body")
		}
		notification.ID = c.Params("id")

		updated, err := a.Manager.UpdateNotification(notification)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update notification", err)
		}
		if !updated {
			return notFound(c, "Notification not found")
		}

		return success(c, fiber.Map{"updated": true})
	}
}

// DeleteNotification removes a single notification
func DeleteNotification(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Manager.DeleteNotification(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to delete notification", err)
		}

		return success(c, fiber.Map{"deleted": true})
	}
}

// DeleteNotifications removes every notification under a subscription
func DeleteNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Manager.DeleteNotifications(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to delete notifications", err)
		}

		return success(c, fiber.Map{"deleted": true})
	}
}

// MarkNotificationRead flags a single notification as read
func MarkNotificationRead(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Manager.MarkNotificationRead(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to mark notification read", err)
		}

		return success(c, fiber.Map{"read": true})
	}
}

// MarkNotificationsRead flags all of a subscription's unread notifications
// as read
func MarkNotificationsRead(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Manager.MarkNotificationsRead(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to mark notifications read", err)
		}

		return success(c, fiber.Map{"read": true})
	}
}

// PruneNotifications deletes notifications older than the given timestamp
// across all subscriptions
func PruneNotifications(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.PruneRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		pruned, err := a.Manager.PruneNotifications(req.OlderThan)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to prune notifications", err)
		}

		return success(c, fiber.Map{"pruned": pruned})
	}
}

// GetStats reports store totals for the UI's diagnostics view
func GetStats(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscriptions, err := a.Repo.CountSubscriptions()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to count subscriptions", err)
		}
		notifications, err := a.Repo.CountNotifications()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to count notifications", err)
		}

		return success(c, fiber.Map{
			"subscriptions": subscriptions,
			"notifications": notifications,
		})
	}
}
