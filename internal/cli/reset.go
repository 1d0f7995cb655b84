package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/sprintdesk/internal/db"
	"github.com/terraincognita07/sprintdesk/internal/models"
	"github.com/terraincognita07/sprintdesk/internal/security"
	"github.com/terraincognita07/sprintdesk/internal/services"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

type PasswordResetRepository interface {
	FindByEmail(email string) (models.User, error)
	UpdatePassword(userID uint, passwordHash string) error
}

// ResetPasswordOptions configures RunResetPasswordCommand. With Prompt set the
// operator types the new password on Stdin; otherwise a temporary one is
// generated and printed.
type ResetPasswordOptions struct {
	Email  string
	Prompt bool
	Stdin  *os.File
	Stdout io.Writer
}

func RunResetPasswordCommand(users PasswordResetRepository, options ResetPasswordOptions) error {
	out := options.Stdout
	if out == nil {
		out = os.Stdout
	}
	var prompt *passwordPrompt
	if options.Prompt {
		prompt = newPasswordPrompt(options.Stdin, out)
	}
	return resetPassword(users, options.Email, prompt, out)
}

func resetPassword(users PasswordResetRepository, rawEmail string, prompt *passwordPrompt, out io.Writer) error {
	if rawEmail == "" {
		return errors.New("email is required")
	}
	email := services.NormalizeAuthEmail(rawEmail)
	if email == "" {
		return fmt.Errorf("invalid email address %q", rawEmail)
	}

	user, err := users.FindByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	var password string
	if prompt != nil {
		password, err = prompt.newPassword()
	} else {
		password, err = generateTemporaryPassword(12)
	}
	if err != nil {
		return err
	}

	passwordHash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	if err := users.UpdatePassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", email)
	if prompt == nil {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.RandomString(length, temporaryPasswordAlphabet)
}
