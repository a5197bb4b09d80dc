package contactnotify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"

	"site-api/internal/common/logger"
	"site-api/internal/slack"
)

// Input is the contact form submission. Theme is the inquiry category chosen
// in the form's dropdown.
type Input struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Theme          string `json:"theme"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

type Output struct {
	Success bool `json:"success"`
}

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Notifier slack.Notifier
	Email    EmailSender
}
