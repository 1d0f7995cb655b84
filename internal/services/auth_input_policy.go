package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

const (
	minUserNameLength = 2
	maxUserNameLength = 100
	minPasswordLength = 6
)

var (
	ErrAuthCredentialsInvalid = kindError(ErrValidation, "email and password are required")
	ErrInvalidUserName        = kindError(ErrValidation, "name must be at least 2 characters")
	ErrInvalidEmail           = kindError(ErrValidation, "a valid email is required")
	ErrWeakPassword           = kindError(ErrValidation, "password must be at least 6 characters")
	ErrInvalidRole            = kindError(ErrValidation, "role must be admin, developer or tester")
)

// NormalizeAuthEmail trims surrounding space and keeps the address exactly as
// typed; emails are compared case-sensitively.
func NormalizeAuthEmail(raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

func NormalizeUserName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(name)
	if length < minUserNameLength || length > maxUserNameLength {
		return "", ErrInvalidUserName
	}
	return name, nil
}

func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeRole defaults an empty role to developer. Roles are advisory.
func NormalizeRole(raw string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		return models.RoleDeveloper, nil
	}
	if !models.IsValidRole(role) {
		return "", ErrInvalidRole
	}
	return role, nil
}
