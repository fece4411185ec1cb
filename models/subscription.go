package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Reservation is a server-side claim over a topic name.
type Reservation struct {
	Topic    string `json:"topic"`
	Everyone string `json:"everyone"`
}

type Subscription struct {
	ID          string       `json:"id"`
	BaseURL     string       `json:"base_url"`
	Topic       string       `json:"topic"`
	Internal    bool         `json:"internal"`
	MutedUntil  int64        `json:"muted_until"` // 0 = not muted
	Last        *string      `json:"last"`        // id of the most recent notification
	DisplayName string       `json:"display_name,omitempty"`
	Reservation *Reservation `json:"reservation"`
	State       string       `json:"state,omitempty"`
	New         int          `json:"new"` // derived unread count, never stored
}

type Notification struct {
	ID             string   `json:"id"`
	SubscriptionID string   `json:"subscription_id"`
	Time           int64    `json:"time"`
	New            int      `json:"new"` // 1 = unread, 0 = read; integer so the engine can index it
	Title          string   `json:"title,omitempty"`
	Message        string   `json:"message"`
	Priority       int      `json:"priority,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// RemoteSubscription is the decoded shape the sync orchestrator hands us.
type RemoteSubscription struct {
	BaseURL     string `json:"base_url" validate:"required,baseurl"`
	Topic       string `json:"topic" validate:"required,topic"`
	DisplayName string `json:"display_name"`
}

type RemoteReservation struct {
	Topic    string `json:"topic" validate:"required,topic"`
	Everyone string `json:"everyone"`
}

// SubscriptionUpdate is a partial update; nil pointer fields are left
// untouched. ReservationSet distinguishes "set reservation to null" from
// "don't touch reservation".
type SubscriptionUpdate struct {
	DisplayName    *string
	MutedUntil     *int64
	Last           *string
	State          *string
	Reservation    *Reservation
	ReservationSet bool
}

// SubscriptionID derives the stable identifier for a (baseURL, topic) pair.
// Two subscriptions to the same topic URL always share an id.
func SubscriptionID(baseURL, topic string) string {
	url := strings.TrimSuffix(baseURL, "/") + "/" + topic
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:24]
}

type AddSubscriptionRequest struct {
	BaseURL  string `json:"base_url" validate:"required,baseurl"`
	Topic    string `json:"topic" validate:"required,topic"`
	Internal bool   `json:"internal"`
}

type AddNotificationRequest struct {
	ID       string   `json:"id"`
	Time     int64    `json:"time" validate:"required,gt=0"`
	Title    string   `json:"title"`
	Message  string   `json:"message" validate:"required"`
	Priority int      `json:"priority" validate:"gte=0,lte=5"`
	Tags     []string `json:"tags"`
}

type SyncRequest struct {
	Subscriptions []RemoteSubscription `json:"subscriptions" validate:"dive"`
	Reservations  []RemoteReservation  `json:"reservations" validate:"dive"`
}

type MuteRequest struct {
	MutedUntil int64 `json:"muted_until" validate:"gte=0"`
}

type DisplayNameRequest struct {
	DisplayName string `json:"display_name" validate:"max=256"`
}

type StateRequest struct {
	State string `json:"state" validate:"required,max=64"`
}

type PruneRequest struct {
	OlderThan int64 `json:"older_than" validate:"required,gt=0"`
}
