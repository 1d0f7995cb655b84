package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return instance
}

// parseInput decodes a JSON body into target and runs its validate tags.
func parseInput(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return errors.New("invalid request body")
	}
	return validateInput(target)
}

func validateInput(target any) error {
	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.New("invalid input")
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		param := fieldError.Param()

		switch fieldError.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, param))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, param))
		case "email":
			messages = append(messages, field+" must be a valid email")
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", ")))
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return errors.New(strings.Join(messages, ", "))
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseOptionalDate accepts RFC 3339 timestamps and plain dates. Nil or blank
// input yields nil.
func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}
