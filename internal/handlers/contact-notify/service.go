package contactnotify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
	"site-api/internal/slack"
)

const messageHeader = "<!channel> *New Contact Form Submission*"

type Service struct {
	config   *Config
	logger   logger.Logger
	notifier slack.Notifier
	email    EmailSender
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		notifier: deps.Notifier,
		email:    deps.Email,
	}
}

// Execute relays the submission to the team chat channel and, when enabled,
// sends an email copy. The email copy is best-effort: once the webhook
// delivery succeeded the submission is not lost, so an email failure only
// logs.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Relaying contact form submission", map[string]interface{}{
		"email": input.Email,
		"theme": input.Theme,
	})

	if err := s.notifier.Post(ctx, buildSlackMessage(input)); err != nil {
		return nil, err
	}

	if s.config.EmailEnabled && s.email != nil {
		if err := s.sendEmailCopy(ctx, input); err != nil {
			metrics.RelayDeliveriesTotal.WithLabelValues("email", "error").Inc()
			s.logger.WithError(err).Warn("contact email copy failed", map[string]interface{}{
				"from": s.config.FromEmail,
				"to":   s.config.ToEmail,
			})
		} else {
			metrics.RelayDeliveriesTotal.WithLabelValues("email", "success").Inc()
		}
	}

	return &Output{Success: true}, nil
}

func buildSlackMessage(input *Input) *slack.Message {
	body := fmt.Sprintf(
		"%s\n\n*Name:*\n%s\n\n*Email:*\n%s\n\n*Theme:*\n%s\n\n*Subject:*\n%s\n\n*Message:*\n%s",
		messageHeader, input.Name, input.Email, input.Theme, input.Subject, input.Message,
	)
	return slack.SectionMessage(messageHeader, body)
}

func (s *Service) sendEmailCopy(ctx context.Context, input *Input) error {
	subject := fmt.Sprintf("Contact form: %s", input.Subject)
	if input.Subject == "" {
		subject = "Contact form submission"
	}
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nTheme: %s\nSubject: %s\n\n%s",
		input.Name, input.Email, input.Theme, input.Subject, input.Message,
	)

	_, err := s.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.config.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		ReplyToAddresses: []string{input.Email},
	})
	return err
}
