package services

import (
	"push-tray/models"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	AllSubscriptions() ([]models.Subscription, error)
	GetSubscription(id string) (*models.Subscription, error)
	AddSubscription(baseURL, topic string, internal bool) (*models.Subscription, error)
	FirstSubscription() (*models.Subscription, error)
	UpdateSubscription(id string, upd models.SubscriptionUpdate) error
	SetMutedUntil(id string, mutedUntil int64) error
	SetDisplayName(id string, displayName string) error
	SetReservation(id string, res *models.Reservation) error
	UpdateState(id string, state string) error
	RemoveSubscription(id string) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	GetNotifications(subscriptionID string) ([]models.Notification, error)
	AllNotifications() ([]models.Notification, error)
	AddNotification(subscriptionID string, n models.Notification) (bool, error)
	AddNotifications(subscriptionID string, notifications []models.Notification) error
	UpdateNotification(n models.Notification) (bool, error)
	DeleteNotification(id string) error
	DeleteNotifications(subscriptionID string) error
	MarkNotificationRead(id string) error
	MarkNotificationsRead(subscriptionID string) error
	PruneNotifications(olderThan int64) (int64, error)
}

// Repository combines both data-access interfaces; *database.Repository
// satisfies it in production.
type Repository interface {
	SubscriptionRepository
	NotificationRepository
}
