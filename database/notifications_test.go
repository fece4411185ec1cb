package database

import (
	"push-tray/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestSubscription(t *testing.T, repo *Repository, topic string) *models.Subscription {
	t.Helper()
	sub, err := repo.AddSubscription("https://ntfy.sh", topic, false)
	require.NoError(t, err)
	return sub
}

func TestAddNotificationIdempotent(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	added, err := repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "original"})
	require.NoError(t, err)
	assert.True(t, added)

	// Same id again is a no-op, the first row survives untouched
	added, err = repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 999, Message: "replacement"})
	require.NoError(t, err)
	assert.False(t, added)

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "original", notifications[0].Message)
	assert.EqualValues(t, 100, notifications[0].Time)
	assert.Equal(t, 1, notifications[0].New)
}

func TestAddNotificationUpdatesLast(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	_, err := repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "one"})
	require.NoError(t, err)

	got, err := repo.GetSubscription(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Last)
	assert.Equal(t, "n1", *got.Last)

	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n2", Time: 200, Message: "two"})
	require.NoError(t, err)

	got, err = repo.GetSubscription(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Last)
	assert.Equal(t, "n2", *got.Last)

	// A duplicate must not advance the pointer
	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 300, Message: "again"})
	require.NoError(t, err)

	got, err = repo.GetSubscription(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "n2", *got.Last)
}

func TestGetNotificationsOrderedByTimeDesc(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	// Inserted out of order on purpose
	for _, n := range []models.Notification{
		{ID: "n2", Time: 200, Message: "two"},
		{ID: "n1", Time: 100, Message: "one"},
		{ID: "n3", Time: 300, Message: "three"},
	} {
		_, err := repo.AddNotification(sub.ID, n)
		require.NoError(t, err)
	}

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "n3", notifications[0].ID)
	assert.Equal(t, "n2", notifications[1].ID)
	assert.Equal(t, "n1", notifications[2].ID)
}

func TestAllNotificationsAcrossSubscriptions(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	a := addTestSubscription(t, repo, "alpha")
	b := addTestSubscription(t, repo, "beta")

	_, err := repo.AddNotification(a.ID, models.Notification{ID: "a1", Time: 100, Message: "one"})
	require.NoError(t, err)
	_, err = repo.AddNotification(b.ID, models.Notification{ID: "b1", Time: 300, Message: "three"})
	require.NoError(t, err)
	_, err = repo.AddNotification(a.ID, models.Notification{ID: "a2", Time: 200, Message: "two"})
	require.NoError(t, err)

	notifications, err := repo.AllNotifications()
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "b1", notifications[0].ID)
	assert.Equal(t, "a2", notifications[1].ID)
	assert.Equal(t, "a1", notifications[2].ID)
}

func TestAddNotificationsBulk(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	err := repo.AddNotifications(sub.ID, []models.Notification{
		{ID: "n1", Time: 100, New: 1, Message: "one"},
		{ID: "n2", Time: 200, New: 0, Message: "two"},
		{ID: "n3", Time: 300, New: 1, Message: "three"},
	})
	require.NoError(t, err)

	got, err := repo.GetSubscription(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Last)
	assert.Equal(t, "n3", *got.Last)

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	// Bulk add is an upsert: replaying with changed content replaces rows
	err = repo.AddNotifications(sub.ID, []models.Notification{
		{ID: "n3", Time: 300, New: 0, Message: "three, edited"},
	})
	require.NoError(t, err)

	notifications, err = repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "three, edited", notifications[0].Message)
	assert.Equal(t, 0, notifications[0].New)
}

func TestAddNotificationsEmptyList(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	err := repo.AddNotifications(sub.ID, nil)
	assert.Error(t, err)
}

func TestUpdateNotification(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	updated, err := repo.UpdateNotification(models.Notification{ID: "missing", SubscriptionID: sub.ID, Time: 100, Message: "nope"})
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "one", Tags: []string{"warning"}})
	require.NoError(t, err)

	updated, err = repo.UpdateNotification(models.Notification{
		ID: "n1", SubscriptionID: sub.ID, Time: 150, New: 0,
		Title: "Edited", Message: "one, edited", Priority: 4, Tags: []string{"skull"},
	})
	require.NoError(t, err)
	assert.True(t, updated)

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "one, edited", notifications[0].Message)
	assert.Equal(t, "Edited", notifications[0].Title)
	assert.EqualValues(t, 150, notifications[0].Time)
	assert.Equal(t, 0, notifications[0].New)
	assert.Equal(t, 4, notifications[0].Priority)
	assert.Equal(t, []string{"skull"}, notifications[0].Tags)
}

func TestMarkNotificationRead(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	_, err := repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "one"})
	require.NoError(t, err)
	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n2", Time: 200, Message: "two"})
	require.NoError(t, err)

	require.NoError(t, repo.MarkNotificationRead("n1"))

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, 1, notifications[0].New) // n2
	assert.Equal(t, 0, notifications[1].New) // n1

	// Marking an absent id matches nothing and is not an error
	require.NoError(t, repo.MarkNotificationRead("missing"))
}

func TestMarkNotificationsRead(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")
	other := addTestSubscription(t, repo, "other")

	_, err := repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "one"})
	require.NoError(t, err)
	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n2", Time: 200, Message: "two"})
	require.NoError(t, err)
	_, err = repo.AddNotification(other.ID, models.Notification{ID: "o1", Time: 300, Message: "three"})
	require.NoError(t, err)

	require.NoError(t, repo.MarkNotificationsRead(sub.ID))

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	for _, n := range notifications {
		assert.Equal(t, 0, n.New)
	}

	// The other subscription keeps its unread notification
	notifications, err = repo.GetNotifications(other.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, 1, notifications[0].New)
}

func TestDeleteNotifications(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	sub := addTestSubscription(t, repo, "alerts")

	_, err := repo.AddNotification(sub.ID, models.Notification{ID: "n1", Time: 100, Message: "one"})
	require.NoError(t, err)
	_, err = repo.AddNotification(sub.ID, models.Notification{ID: "n2", Time: 200, Message: "two"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteNotification("n1"))

	notifications, err := repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "n2", notifications[0].ID)

	// Deleting something that does not exist is fine
	require.NoError(t, repo.DeleteNotification("missing"))

	require.NoError(t, repo.DeleteNotifications(sub.ID))
	notifications, err = repo.GetNotifications(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestPruneNotifications(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	a := addTestSubscription(t, repo, "alpha")
	b := addTestSubscription(t, repo, "beta")

	_, err := repo.AddNotification(a.ID, models.Notification{ID: "a1", Time: 100, Message: "old"})
	require.NoError(t, err)
	_, err = repo.AddNotification(a.ID, models.Notification{ID: "a2", Time: 200, Message: "edge"})
	require.NoError(t, err)
	_, err = repo.AddNotification(b.ID, models.Notification{ID: "b1", Time: 150, Message: "old"})
	require.NoError(t, err)
	_, err = repo.AddNotification(b.ID, models.Notification{ID: "b2", Time: 300, Message: "new"})
	require.NoError(t, err)

	// Strictly-less-than: a2 at the threshold survives
	pruned, err := repo.PruneNotifications(200)
	require.NoError(t, err)
	assert.EqualValues(t, 2, pruned)

	remaining, err := repo.AllNotifications()
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "b2", remaining[0].ID)
	assert.Equal(t, "a2", remaining[1].ID)
}
