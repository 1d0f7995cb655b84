package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/sprintdesk/internal/db"
)

// Error kinds. Every error returned by a service either wraps one of these or
// is an unexpected storage failure.
var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict")
	ErrValidation           = errors.New("validation failed")
	ErrCodeGenerationFailed = errors.New("could not generate a unique project code")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

var (
	ErrUserNotFound         = kindError(ErrNotFound, "user not found")
	ErrClientNotFound       = kindError(ErrNotFound, "client not found")
	ErrProjectNotFound      = kindError(ErrNotFound, "project not found")
	ErrSprintNotFound       = kindError(ErrNotFound, "sprint not found")
	ErrIssueNotFound        = kindError(ErrNotFound, "issue not found")
	ErrNotificationNotFound = kindError(ErrNotFound, "notification not found")
	ErrMembershipNotFound   = kindError(ErrNotFound, "not a member of this project")
	ErrInvalidProjectCode   = kindError(ErrNotFound, "invalid project code")

	ErrProjectAccessDenied = kindError(ErrForbidden, "you do not have access to this project")
	ErrNotProjectOwner     = kindError(ErrForbidden, "only the project owner can do this")
	ErrClientNotOwned      = kindError(ErrForbidden, "client does not belong to you")
	ErrJoinLocked          = kindError(ErrForbidden, "this project is not accepting new members")
	ErrOwnerCannotLeave    = kindError(ErrForbidden, "the project owner cannot leave the project")

	ErrEmailTaken = kindError(ErrConflict, "email already in use")

	ErrProjectCodeRequired = kindError(ErrValidation, "project code is required")
	ErrCannotRemoveOwner   = kindError(ErrValidation, "the project owner cannot be removed")
)

type serviceError struct {
	kind    error
	message string
}

func (err *serviceError) Error() string {
	return err.message
}

func (err *serviceError) Unwrap() error {
	return err.kind
}

func kindError(kind error, message string) error {
	return &serviceError{kind: kind, message: message}
}

func validationError(format string, args ...any) error {
	return kindError(ErrValidation, fmt.Sprintf(format, args...))
}

// lookupError maps a missing row to notFound and wraps anything else.
func lookupError(err error, notFound error, action string) error {
	if db.IsNotFound(err) {
		return notFound
	}
	return fmt.Errorf("%s: %w", action, err)
}
