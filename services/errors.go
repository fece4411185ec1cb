package services

import "errors"

// Common service-level errors
var (
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrEmptyNotificationList = errors.New("notification list must not be empty")
)
