package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "InternHub"

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailService sends notification emails through SendGrid.
type EmailService struct {
	client mailSender
	from   *mail.Email
}

func NewEmailService(apiKey, fromEmail string) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, fromEmail),
	}
}

func (s *EmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildEmail(s.from, to, subject, body)

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d", response.StatusCode)
	}
	return nil
}

func buildEmail(from *mail.Email, to, subject, body string) *mail.SGMailV3 {
	recipient := mail.NewEmail("", to)
	htmlContent := "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>"
	return mail.NewSingleEmail(from, subject, recipient, body, htmlContent)
}
