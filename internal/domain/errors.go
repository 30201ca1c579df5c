package domain

import "errors"

// Sentinel errors shared across services and repositories.
// Controllers map these to HTTP status codes; anything else is a 500.
var (
	// ErrNotFound covers both absent and malformed identifiers. The two are
	// deliberately indistinguishable so callers cannot probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but lacks permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound means no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAlreadyParticipant means the user is already on the event's
	// participant list. Invitations treat this as a rejection; join treats
	// it as an idempotent no-op and never surfaces it.
	ErrAlreadyParticipant = errors.New("user is already a participant")

	// ErrInvalidCredentials is returned for any login failure, without
	// distinguishing unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput means a request value failed a business rule.
	ErrInvalidInput = errors.New("invalid input")
)
