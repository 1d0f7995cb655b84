package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

func TestNormalizeAuthEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "trims spaces and keeps case", raw: " USER@Example.COM ", want: "USER@Example.COM"},
		{name: "invalid email returns empty", raw: "not-email", want: ""},
		{name: "empty returns empty", raw: "   ", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeAuthEmail(testCase.raw); got != testCase.want {
				t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestNormalizeCredentialsInput(t *testing.T) {
	email, password, err := NormalizeCredentialsInput(" USER@EXAMPLE.COM ", "  secret1  ")
	if err != nil {
		t.Fatalf("expected valid credentials input, got %v", err)
	}
	if email != "USER@EXAMPLE.COM" {
		t.Fatalf("expected trimmed email with original case, got %q", email)
	}
	if password != "secret1" {
		t.Fatalf("expected trimmed password, got %q", password)
	}

	_, _, err = NormalizeCredentialsInput("not-email", "secret1")
	if !errors.Is(err, ErrAuthCredentialsInvalid) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for invalid email, got %v", err)
	}

	_, _, err = NormalizeCredentialsInput("user@example.com", " ")
	if !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for empty password, got %v", err)
	}
}

func TestNormalizeUserName(t *testing.T) {
	if name, err := NormalizeUserName("  Jo "); err != nil || name != "Jo" {
		t.Fatalf("NormalizeUserName() = %q, %v; want Jo", name, err)
	}
	if _, err := NormalizeUserName(" J "); !errors.Is(err, ErrInvalidUserName) {
		t.Fatalf("expected ErrInvalidUserName for one character, got %v", err)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	if err := ValidatePasswordStrength("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for 5 characters, got %v", err)
	}
	if err := ValidatePasswordStrength("123456"); err != nil {
		t.Fatalf("expected 6 characters to pass, got %v", err)
	}
}

func TestNormalizeRole(t *testing.T) {
	role, err := NormalizeRole("")
	if err != nil || role != models.RoleDeveloper {
		t.Fatalf("NormalizeRole(\"\") = %q, %v; want developer", role, err)
	}
	role, err = NormalizeRole(" Tester ")
	if err != nil || role != models.RoleTester {
		t.Fatalf("NormalizeRole(Tester) = %q, %v; want tester", role, err)
	}
	if _, err := NormalizeRole("owner"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
