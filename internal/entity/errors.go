package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoSession       = errors.New("no active session")
)

var (
	ErrPasswordInvalidLen    = errors.New("password must be at least 5 symbols")
	ErrPasswordNoUpperCase   = errors.New("password must contain minimum one upper-case letter")
	ErrPasswordNoLowerCase   = errors.New("password must contain minimum one lower-case letter")
	ErrPasswordNoDigit       = errors.New("password must contain minimum one digit")
	ErrPasswordNoSpecialChar = errors.New("password must contain minimum one special character")
)

var (
	ErrEmailInvalidLen    = errors.New("email length exceeds 255 characters")
	ErrEmailInvalidFormat = errors.New("incorrect email format")
)

var ErrCodeInvalid = errors.New("invalid code")

// BackendError carries a non-2xx backend outcome across the client
// boundary. Message is the server-provided reason when the body was
// parseable, empty otherwise.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("backend returned code %d", e.StatusCode)
}
