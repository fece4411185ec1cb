package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"push-tray/models"
	"time"
)

// ==================== SUBSCRIPTION OPERATIONS ====================

const subscriptionColumns = `id, base_url, topic, internal, muted_until,
	last_notification_id, display_name, reservation, state`

func scanSubscription(row *sql.Row) (*models.Subscription, error) {
	var sub models.Subscription
	var last sql.NullString
	var reservation sql.NullString

	err := row.Scan(
		&sub.ID, &sub.BaseURL, &sub.Topic, &sub.Internal, &sub.MutedUntil,
		&last, &sub.DisplayName, &reservation, &sub.State,
	)
	if err != nil {
		return nil, err
	}

	if last.Valid {
		sub.Last = &last.String
	}
	if reservation.Valid {
		var res models.Reservation
		if err := json.Unmarshal([]byte(reservation.String), &res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation for %s: %w", sub.ID, err)
		}
		sub.Reservation = &res
	}

	return &sub, nil
}

func marshalReservation(res *models.Reservation) (sql.NullString, error) {
	if res == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode reservation: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// AllSubscriptions retrieves every subscription together with its unread
// notification count, ordered by creation (rowid).
func (r *Repository) AllSubscriptions() ([]models.Subscription, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.base_url, s.topic, s.internal, s.muted_until,
		       s.last_notification_id, s.display_name, s.reservation, s.state,
		       COUNT(n.id)
		FROM subscriptions s
		LEFT JOIN notifications n ON n.subscription_id = s.id AND n.new = 1
		GROUP BY s.id
		ORDER BY s.rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	subs := make([]models.Subscription, 0)
	for rows.Next() {
		var sub models.Subscription
		var last sql.NullString
		var reservation sql.NullString

		if err := rows.Scan(
			&sub.ID, &sub.BaseURL, &sub.Topic, &sub.Internal, &sub.MutedUntil,
			&last, &sub.DisplayName, &reservation, &sub.State, &sub.New,
		); err != nil {
			return nil, err
		}
		if last.Valid {
			sub.Last = &last.String
		}
		if reservation.Valid {
			var res models.Reservation
			if err := json.Unmarshal([]byte(reservation.String), &res); err != nil {
				return nil, fmt.Errorf("failed to decode reservation for %s: %w", sub.ID, err)
			}
			sub.Reservation = &res
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// GetSubscription retrieves a single subscription by id
func (r *Repository) GetSubscription(id string) (*models.Subscription, error) {
	row := r.db.QueryRow(`
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = ?
	`, id)

	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// AddSubscription creates a subscription for (baseURL, topic) if none exists.
// The id is derived from the pair, so repeated calls return the existing row
// unchanged.
func (r *Repository) AddSubscription(baseURL, topic string, internal bool) (*models.Subscription, error) {
	id := models.SubscriptionID(baseURL, topic)

	_, err := r.db.Exec(`
		INSERT INTO subscriptions (id, base_url, topic, internal, muted_until,
			last_notification_id, display_name, reservation, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, NULL, '', NULL, '', ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, baseURL, topic, internal, time.Now(), time.Now())
	if err != nil {
		return nil, err
	}

	return r.GetSubscription(id)
}

// FirstSubscription returns an arbitrary subscription (natural iteration
// order), or nil if none exist.
func (r *Repository) FirstSubscription() (*models.Subscription, error) {
	row := r.db.QueryRow(`
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		ORDER BY rowid ASC
		LIMIT 1
	`)

	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubscription applies a partial update; nil fields are left untouched.
func (r *Repository) UpdateSubscription(id string, upd models.SubscriptionUpdate) error {
	set := "updated_at = ?"
	args := []interface{}{time.Now()}

	if upd.DisplayName != nil {
		set += ", display_name = ?"
		args = append(args, *upd.DisplayName)
	}
	if upd.MutedUntil != nil {
		set += ", muted_until = ?"
		args = append(args, *upd.MutedUntil)
	}
	if upd.Last != nil {
		set += ", last_notification_id = ?"
		args = append(args, *upd.Last)
	}
	if upd.State != nil {
		set += ", state = ?"
		args = append(args, *upd.State)
	}
	if upd.ReservationSet {
		reservation, err := marshalReservation(upd.Reservation)
		if err != nil {
			return err
		}
		set += ", reservation = ?"
		args = append(args, reservation)
	}

	args = append(args, id)
	_, err := r.db.Exec(`UPDATE subscriptions SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r *Repository) SetMutedUntil(id string, mutedUntil int64) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions SET muted_until = ?, updated_at = ? WHERE id = ?
	`, mutedUntil, time.Now(), id)
	return err
}

func (r *Repository) SetDisplayName(id string, displayName string) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions SET display_name = ?, updated_at = ? WHERE id = ?
	`, displayName, time.Now(), id)
	return err
}

func (r *Repository) SetReservation(id string, res *models.Reservation) error {
	reservation, err := marshalReservation(res)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		UPDATE subscriptions SET reservation = ?, updated_at = ? WHERE id = ?
	`, reservation, time.Now(), id)
	return err
}

func (r *Repository) UpdateState(id string, state string) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions SET state = ?, updated_at = ? WHERE id = ?
	`, state, time.Now(), id)
	return err
}

// RemoveSubscription deletes a subscription and all of its notifications in
// a single transaction, so a crash cannot leave orphaned notifications.
func (r *Repository) RemoveSubscription(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM subscriptions WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM notifications WHERE subscription_id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}
