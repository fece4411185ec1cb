package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"push-tray/models"
	"time"
)

// ==================== NOTIFICATION OPERATIONS ====================

const notificationColumns = `id, subscription_id, time, new, title, message, priority, tags`

func scanNotification(rows *sql.Rows) (*models.Notification, error) {
	var n models.Notification
	var tags sql.NullString

	if err := rows.Scan(
		&n.ID, &n.SubscriptionID, &n.Time, &n.New,
		&n.Title, &n.Message, &n.Priority, &tags,
	); err != nil {
		return nil, err
	}

	if tags.Valid {
		if err := json.Unmarshal([]byte(tags.String), &n.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for %s: %w", n.ID, err)
		}
	}

	return &n, nil
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// GetNotifications retrieves all notifications for a subscription, most
// recent first.
func (r *Repository) GetNotifications(subscriptionID string) ([]models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE subscription_id = ?
		ORDER BY time DESC
	`, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}

	return notifications, rows.Err()
}

// AllNotifications retrieves notifications across all subscriptions, most
// recent first.
func (r *Repository) AllNotifications() ([]models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT ` + notificationColumns + `
		FROM notifications
		ORDER BY time DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}

	return notifications, rows.Err()
}

// AddNotification inserts a notification under a subscription and advances
// the subscription's last-notification pointer, in one transaction. A
// duplicate id is a no-op and returns false; storage failures propagate.
func (r *Repository) AddNotification(subscriptionID string, n models.Notification) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM notifications WHERE id = ?`, n.ID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists > 0 {
		return false, nil
	}

	tags, err := marshalTags(n.Tags)
	if err != nil {
		return false, err
	}

	// New notifications always start unread
	_, err = tx.Exec(`
		INSERT INTO notifications (id, subscription_id, time, new, title, message, priority, tags, created_at)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?)
	`, n.ID, subscriptionID, n.Time, n.Title, n.Message, n.Priority, tags, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert notification %s: %w", n.ID, err)
	}

	_, err = tx.Exec(`
		UPDATE subscriptions SET last_notification_id = ?, updated_at = ? WHERE id = ?
	`, n.ID, time.Now(), subscriptionID)
	if err != nil {
		return false, fmt.Errorf("failed to update last notification for %s: %w", subscriptionID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// AddNotifications bulk-upserts notifications under a subscription and points
// the subscription's last-notification pointer at the final element. The
// caller supplies the list in chronological order; it must not be empty.
func (r *Repository) AddNotifications(subscriptionID string, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return fmt.Errorf("no notifications to add for subscription %s", subscriptionID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, n := range notifications {
		tags, err := marshalTags(n.Tags)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO notifications (id, subscription_id, time, new, title, message, priority, tags, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, n.ID, subscriptionID, n.Time, n.New, n.Title, n.Message, n.Priority, tags, time.Now())
		if err != nil {
			return fmt.Errorf("failed to upsert notification %s: %w", n.ID, err)
		}
	}

	last := notifications[len(notifications)-1].ID
	_, err = tx.Exec(`
		UPDATE subscriptions SET last_notification_id = ?, updated_at = ? WHERE id = ?
	`, last, time.Now(), subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to update last notification for %s: %w", subscriptionID, err)
	}

	return tx.Commit()
}

// UpdateNotification replaces an existing notification wholesale. Returns
// false if no row with that id exists.
func (r *Repository) UpdateNotification(n models.Notification) (bool, error) {
	tags, err := marshalTags(n.Tags)
	if err != nil {
		return false, err
	}

	res, err := r.db.Exec(`
		UPDATE notifications
		SET subscription_id = ?, time = ?, new = ?, title = ?, message = ?, priority = ?, tags = ?
		WHERE id = ?
	`, n.SubscriptionID, n.Time, n.New, n.Title, n.Message, n.Priority, tags, n.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update notification %s: %w", n.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *Repository) DeleteNotification(id string) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	return err
}

func (r *Repository) DeleteNotifications(subscriptionID string) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE subscription_id = ?`, subscriptionID)
	return err
}

func (r *Repository) MarkNotificationRead(id string) error {
	_, err := r.db.Exec(`UPDATE notifications SET new = 0 WHERE id = ? AND new = 1`, id)
	return err
}

func (r *Repository) MarkNotificationsRead(subscriptionID string) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET new = 0 WHERE subscription_id = ? AND new = 1
	`, subscriptionID)
	return err
}

// PruneNotifications deletes every notification older than the threshold,
// across all subscriptions. Returns the number of rows removed.
func (r *Repository) PruneNotifications(olderThan int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM notifications WHERE time < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
