package services

import (
	"fmt"
	"log/slog"
	"push-tray/models"
)

// SubscriptionManager handles business logic for subscriptions and their
// notifications. All multi-row sequences except SyncFromRemote are atomic at
// the repository level; SyncFromRemote applies its steps one by one, so a
// failure mid-way leaves the already-applied steps in place.
type SubscriptionManager struct {
	repo   Repository
	logger *slog.Logger
}

// NewSubscriptionManager creates a new subscription manager
func NewSubscriptionManager(repo Repository, logger *slog.Logger) *SubscriptionManager {
	return &SubscriptionManager{
		repo:   repo,
		logger: logger,
	}
}

// All returns every subscription with its derived unread count.
func (m *SubscriptionManager) All() ([]models.Subscription, error) {
	return m.repo.AllSubscriptions()
}

// Get returns a subscription by id, or nil if it does not exist.
func (m *SubscriptionManager) Get(id string) (*models.Subscription, error) {
	return m.repo.GetSubscription(id)
}

// Add creates a subscription for (baseURL, topic) or returns the existing one
// unchanged; the id is deterministic in the pair.
func (m *SubscriptionManager) Add(baseURL, topic string, internal bool) (*models.Subscription, error) {
	return m.repo.AddSubscription(baseURL, topic, internal)
}

// First returns an arbitrary subscription, or nil if none exist.
func (m *SubscriptionManager) First() (*models.Subscription, error) {
	return m.repo.FirstSubscription()
}

// Update applies a partial update to a subscription.
func (m *SubscriptionManager) Update(id string, upd models.SubscriptionUpdate) error {
	return m.repo.UpdateSubscription(id, upd)
}

func (m *SubscriptionManager) SetMutedUntil(id string, mutedUntil int64) error {
	return m.repo.SetMutedUntil(id, mutedUntil)
}

func (m *SubscriptionManager) SetDisplayName(id string, displayName string) error {
	return m.repo.SetDisplayName(id, displayName)
}

func (m *SubscriptionManager) SetReservation(id string, res *models.Reservation) error {
	return m.repo.SetReservation(id, res)
}

func (m *SubscriptionManager) UpdateState(id string, state string) error {
	return m.repo.UpdateState(id, state)
}

// Remove deletes a subscription and cascades to its notifications.
func (m *SubscriptionManager) Remove(id string) error {
	return m.repo.RemoveSubscription(id)
}

// SyncFromRemote reconciles the local subscription set against the remote
// one. Every remote subscription gets a local row; matched reservations and
// display names are applied; local non-internal subscriptions absent from
// the remote set are removed along with their notifications.
//
// Reservations are matched by topic, and only for subscriptions on
// defaultBaseURL. A subscription on any other server never matches a
// reservation, even if the remote payload carried one for its topic.
func (m *SubscriptionManager) SyncFromRemote(remoteSubs []models.RemoteSubscription, remoteReservations []models.RemoteReservation, defaultBaseURL string) error {
	remoteIDs := make(map[string]bool, len(remoteSubs))

	for _, remote := range remoteSubs {
		local, err := m.repo.AddSubscription(remote.BaseURL, remote.Topic, false)
		if err != nil {
			return fmt.Errorf("failed to sync subscription %s/%s: %w", remote.BaseURL, remote.Topic, err)
		}
		remoteIDs[local.ID] = true

		var reservation *models.Reservation
		if local.BaseURL == defaultBaseURL {
			for i := range remoteReservations {
				if remoteReservations[i].Topic == remote.Topic {
					reservation = &models.Reservation{
						Topic:    remoteReservations[i].Topic,
						Everyone: remoteReservations[i].Everyone,
					}
					break
				}
			}
		}

		displayName := remote.DisplayName
		err = m.repo.UpdateSubscription(local.ID, models.SubscriptionUpdate{
			DisplayName:    &displayName,
			Reservation:    reservation,
			ReservationSet: true,
		})
		if err != nil {
			return fmt.Errorf("failed to apply remote state to %s: %w", local.ID, err)
		}
	}

	locals, err := m.repo.AllSubscriptions()
	if err != nil {
		return err
	}
	for _, local := range locals {
		if local.Internal || remoteIDs[local.ID] {
			continue
		}
		m.logger.Info("removing subscription absent from remote", "id", local.ID, "topic", local.Topic)
		if err := m.repo.RemoveSubscription(local.ID); err != nil {
			return fmt.Errorf("failed to remove stale subscription %s: %w", local.ID, err)
		}
	}

	return nil
}

// GetNotifications returns a subscription's notifications, most recent first.
func (m *SubscriptionManager) GetNotifications(subscriptionID string) ([]models.Notification, error) {
	return m.repo.GetNotifications(subscriptionID)
}

// GetAllNotifications returns all notifications, most recent first.
func (m *SubscriptionManager) GetAllNotifications() ([]models.Notification, error) {
	return m.repo.AllNotifications()
}

// AddNotification inserts a notification and advances the subscription's
// last pointer. Returns false without touching storage when the id already
// exists.
func (m *SubscriptionManager) AddNotification(subscriptionID string, n models.Notification) (bool, error) {
	return m.repo.AddNotification(subscriptionID, n)
}

// AddNotifications bulk-upserts notifications supplied in chronological
// order. An empty list is a caller error.
func (m *SubscriptionManager) AddNotifications(subscriptionID string, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return ErrEmptyNotificationList
	}
	return m.repo.AddNotifications(subscriptionID, notifications)
}

// UpdateNotification replaces an existing notification. Returns false when
// no row with that id exists.
func (m *SubscriptionManager) UpdateNotification(n models.Notification) (bool, error) {
	return m.repo.UpdateNotification(n)
}

func (m *SubscriptionManager) DeleteNotification(id string) error {
	return m.repo.DeleteNotification(id)
}

func (m *SubscriptionManager) DeleteNotifications(subscriptionID string) error {
	return m.repo.DeleteNotifications(subscriptionID)
}

func (m *SubscriptionManager) MarkNotificationRead(id string) error {
	return m.repo.MarkNotificationRead(id)
}

func (m *SubscriptionManager) MarkNotificationsRead(subscriptionID string) error {
	return m.repo.MarkNotificationsRead(subscriptionID)
}

// PruneNotifications deletes notifications older than the given timestamp.
func (m *SubscriptionManager) PruneNotifications(olderThan int64) (int64, error) {
	pruned, err := m.repo.PruneNotifications(olderThan)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		m.logger.Info("pruned notifications", "count", pruned, "older_than", olderThan)
	}
	return pruned, nil
}
