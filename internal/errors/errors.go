package errors

import "errors"

// Domain errors. Services return these (possibly wrapped) and the transport
// layers translate them with Map / HTTPStatus / Notice.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidRecipient   = errors.New("recipient does not exist")
	ErrSelfAction         = errors.New("cannot target yourself")
	ErrEmptyMessage       = errors.New("message body is required")
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrInvalidInput       = errors.New("invalid input")
)

// Notice returns the user-facing text for a recoverable error, or "" when
// the error should not be shown to the user.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in to access this page."
	case errors.Is(err, ErrInvalidRecipient):
		return "That user does not exist."
	case errors.Is(err, ErrSelfAction):
		return "You cannot do that to yourself."
	case errors.Is(err, ErrEmptyMessage):
		return "Message cannot be empty."
	case errors.Is(err, ErrInvalidUpload), errors.Is(err, ErrInvalidInput):
		return err.Error()
	}
	return ""
}
