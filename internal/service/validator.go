package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zucitech/portal-client/internal/entity"
)

const (
	EmailMaxLen    = 255
	PasswordMinLen = 5
	ResetCodeLen   = 6
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	upperRegexp   = regexp.MustCompile(`[A-Z]`)
	lowerRegexp   = regexp.MustCompile(`[a-z]`)
	digitRegexp   = regexp.MustCompile(`[0-9]`)
	specialRegexp = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

	resetCodeRegexp = regexp.MustCompile(`^\d{6}$`)
)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen {
		return entity.ErrEmailInvalidLen
	}

	if !emailRegexp.MatchString(email) {
		return entity.ErrEmailInvalidFormat
	}

	if strings.Contains(email, "..") {
		return entity.ErrEmailInvalidFormat
	}

	return nil
}

// ValidatePassword gates the reset flow before any network call: at
// least 5 symbols with one upper-case letter, one lower-case letter,
// one digit and one special character.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return entity.ErrPasswordInvalidLen
	}

	if !upperRegexp.MatchString(password) {
		return entity.ErrPasswordNoUpperCase
	}

	if !lowerRegexp.MatchString(password) {
		return entity.ErrPasswordNoLowerCase
	}

	if !digitRegexp.MatchString(password) {
		return entity.ErrPasswordNoDigit
	}

	if !specialRegexp.MatchString(password) {
		return entity.ErrPasswordNoSpecialChar
	}

	return nil
}

// ValidateResetCode is the local-only gate between requesting a code
// and submitting it: format only, the backend is the authority on
// whether the code is actually right.
func ValidateResetCode(code string) error {
	if !resetCodeRegexp.MatchString(code) {
		return entity.ErrCodeInvalid
	}

	return nil
}
