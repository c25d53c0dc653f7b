package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidInput marks a request the service refused to process.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConsentRequired is returned when a health data operation runs
	// without the user's consent flag set.
	ErrConsentRequired = errors.New("health data consent required")

	// ErrForbidden is returned when a user touches a record they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrQueueFull signals ingest backpressure; the caller should retry later.
	ErrQueueFull = errors.New("ingest queue full")
)
