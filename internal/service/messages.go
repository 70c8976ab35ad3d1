package service

import (
	"errors"
	"fmt"

	"github.com/zucitech/portal-client/internal/entity"
)

const genericErrText = "Something went wrong. Please try again."

// UserMessage maps a flow failure to the inline text shown next to the
// offending field or in the alert. Backend-provided reasons pass
// through verbatim; everything else gets a descriptive local message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrEmailInvalidFormat):
		return "Please enter a valid email address."
	case errors.Is(err, entity.ErrEmailInvalidLen):
		return fmt.Sprintf("Email must not exceed %d characters.", EmailMaxLen)
	case errors.Is(err, entity.ErrPasswordInvalidLen):
		return fmt.Sprintf("Password must be at least %d characters.", PasswordMinLen)
	case errors.Is(err, entity.ErrPasswordNoUpperCase):
		return "Password must contain an upper-case letter."
	case errors.Is(err, entity.ErrPasswordNoLowerCase):
		return "Password must contain a lower-case letter."
	case errors.Is(err, entity.ErrPasswordNoDigit):
		return "Password must contain a digit."
	case errors.Is(err, entity.ErrPasswordNoSpecialChar):
		return "Password must contain a symbol."
	case errors.Is(err, entity.ErrCodeInvalid):
		return fmt.Sprintf("Enter the %d-digit code from your email.", ResetCodeLen)
	case errors.Is(err, entity.ErrInvalidResponse):
		return "Invalid response format."
	}

	var backendErr *entity.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Error()
	}

	return genericErrText
}
