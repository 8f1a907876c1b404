package email

import (
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendNewsletterWelcome(toEmail string) error
}

// SendGridConfig holds configuration for the SendGrid API
type SendGridConfig struct {
	APIKey    string
	FromName  string
	FromEmail string
	BaseURL   string // Public URL of the app, used for the unsubscribe link
	Host      string // API host, defaults to api.sendgrid.com
}

// Message is a rendered email
type Message struct {
	To          string
	Subject     string
	TextContent string
	HTMLContent string
}

// SendGridService sends mail through the SendGrid v3 API
type SendGridService struct {
	config SendGridConfig
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewEmailService returns a SendGrid backed service, or a service that only
// logs outgoing mail when no API key is configured.
func NewEmailService(config SendGridConfig, logger zerolog.Logger) EmailService {
	if config.APIKey == "" {
		logger.Warn().Msg("SendGrid API key not configured - emails will be logged, not sent")
		return &LogEmailService{logger: logger}
	}
	if config.Host == "" {
		config.Host = defaultHost
	}
	return &SendGridService{
		config: config,
		from:   sgmail.NewEmail(config.FromName, config.FromEmail),
		logger: logger,
	}
}

// SendNewsletterWelcome confirms a newsletter subscription
func (s *SendGridService) SendNewsletterWelcome(toEmail string) error {
	return s.Send(WelcomeMessage(toEmail, s.config.BaseURL))
}

// Send delivers a single message
func (s *SendGridService) Send(msg Message) error {
	req := sendgrid.GetRequest(s.config.APIKey, endpoint, s.config.Host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequest(req)
	if err != nil {
		s.logger.Error().Err(err).Str("to", msg.To).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Str("to", msg.To).Msg("SendGrid rejected email")
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}

	s.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

func (s *SendGridService) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)
	return m
}

// LogEmailService writes emails to the log instead of sending them
type LogEmailService struct {
	logger zerolog.Logger
}

// SendNewsletterWelcome logs the welcome email
func (s *LogEmailService) SendNewsletterWelcome(toEmail string) error {
	s.logger.Info().Str("toEmail", toEmail).Msg("Newsletter welcome email (not sent, no email provider configured)")
	return nil
}

// WelcomeMessage renders the newsletter welcome email
func WelcomeMessage(toEmail, baseURL string) Message {
	text := "Thanks for subscribing to the GPAi newsletter.\n\n" +
		"You'll get study tips, product updates and GPA planning guides.\n\n" +
		"To stop receiving these emails, unsubscribe at " + baseURL + "/newsletter/unsubscribe\n"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to the GPAi newsletter!</h2>
				<p>Thanks for subscribing with %s.</p>
				<p>You'll get study tips, product updates and GPA planning guides.</p>
				<p style="font-size: 12px; color: #777;">Not for you? <a href="%s/newsletter/unsubscribe">Unsubscribe</a>.</p>
				<p>The GPAi Team</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toEmail), html.EscapeString(baseURL))

	return Message{
		To:          toEmail,
		Subject:     "Welcome to the GPAi newsletter",
		TextContent: text,
		HTMLContent: body,
	}
}
