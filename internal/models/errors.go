package models

import (
	"errors"
)

// Response and session errors
var (
	// ErrInvalidResponse is returned when a server response lacks the fields the client relies on
	ErrInvalidResponse = errors.New("invalid server response - missing token or user data")

	// ErrCorruptSession is returned when persisted credentials cannot be trusted
	ErrCorruptSession = errors.New("persisted session is malformed")

	// ErrSessionExpired is returned when the persisted token has passed its expiry
	ErrSessionExpired = errors.New("persisted session has expired")
)

// Subscription errors
var (
	// ErrInvalidSubscription is returned when subscription input fails validation
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when an id is not in the cached list
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
