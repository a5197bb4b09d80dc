package contactnotify

import (
	"fmt"
	"strings"

	"site-api/internal/common/errors"
)

const (
	maxNameLength    = 200
	maxSubjectLength = 500
	maxMessageLength = 10000
)

func ValidateInput(input *Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationFailedError("name is required")
	}
	if len(input.Name) > maxNameLength {
		return errors.NewValidationFailedError("name is too long")
	}
	if err := validateEmail(input.Email); err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	if len(input.Subject) > maxSubjectLength {
		return errors.NewValidationFailedError("subject is too long")
	}
	if strings.TrimSpace(input.Message) == "" {
		return errors.NewValidationFailedError("message is required")
	}
	if len(input.Message) > maxMessageLength {
		return errors.NewValidationFailedError("message is too long")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return fmt.Errorf("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}
