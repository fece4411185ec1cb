package setup

import (
	"push-tray/app"
	"push-tray/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := fiberApp.Group("/api")

	api.Get("/subscriptions", handlers.GetSubscriptions(application))
	api.Post("/subscriptions", handlers.CreateSubscription(application))
	api.Get("/subscriptions/first", handlers.GetFirstSubscription(application))
	api.Get("/subscriptions/:id", handlers.GetSubscription(application))
	api.Delete("/subscriptions/:id", handlers.DeleteSubscription(application))
	api.Put("/subscriptions/:id/mute", handlers.MuteSubscription(application))
	api.Put("/subscriptions/:id/display-name", handlers.SetDisplayName(application))
	api.Put("/subscriptions/:id/state", handlers.SetState(application))
	api.Put("/subscriptions/:id/read", handlers.MarkNotificationsRead(application))

	api.Get("/subscriptions/:id/notifications", handlers.GetNotifications(application))
	api.Post("/subscriptions/:id/notifications", handlers.CreateNotification(application))
	api.Post("/subscriptions/:id/notifications/batch", handlers.CreateNotifications(application))
	api.Delete("/subscriptions/:id/notifications", handlers.DeleteNotifications(application))

	api.Get("/notifications", handlers.GetAllNotifications(application))
	api.Put("/notifications/:id", handlers.UpdateNotification(application))
	api.Delete("/notifications/:id", handlers.DeleteNotification(application))
	api.Put("/notifications/:id/read", handlers.MarkNotificationRead(application))
	api.Post("/notifications/prune", handlers.PruneNotifications(application))

	api.Post("/sync", handlers.Sync(application))
	api.Get("/stats", handlers.GetStats(application))
}
