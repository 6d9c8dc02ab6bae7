package waitlist

import "errors"

// Sentinel errors for the waitlist domain. They are wrapped in pkg/errors.AppError
// and remain matchable with errors.Is.
var (
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrDuplicateEmail = errors.New("email already on waitlist")
)

const (
	msgInvalidEmail   = "Invalid email address"
	msgDuplicateEmail = "Email already on waitlist"
	msgInsertFailed   = "Failed to add to waitlist"
	msgCountFailed    = "Failed to fetch waitlist count"
	msgRegistered     = "Successfully added to waitlist! 🎉"
)
