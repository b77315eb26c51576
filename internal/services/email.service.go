package services

import (
	"context"
	"strings"
	"time"
	"vehiclecare/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/wneessen/go-mail"
)

type mailDialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailService delivers mail over SMTP. Delivery is fire-and-report: failures
// are logged and surfaced only as a false return.
type EmailService struct {
	client mailDialer
	from   string
	now    clock
	log    logger.Logger
}

// NewEmailService leaves the service disabled when SMTP is not configured or the
// configuration is rejected by the mail client.
func NewEmailService(config config.Config) *EmailService {
	log := logger.New("emailService").Function("NewEmailService")

	service := &EmailService{
		from: config.SMTPFrom,
		now:  time.Now,
		log:  logger.New("emailService"),
	}
	if config.SMTPHost == "" || config.SMTPFrom == "" {
		return service
	}

	options := []mail.Option{
		mail.WithPort(config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if config.SMTPUser != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.SMTPUser),
			mail.WithPassword(config.SMTPPassword),
		)
	}

	client, err := mail.NewClient(config.SMTPHost, options...)
	if err != nil {
		log.Er("invalid SMTP configuration, email disabled", err, "host", config.SMTPHost)
		return service
	}

	service.client = client
	return service
}

func (s *EmailService) Enabled() bool {
	return s.client != nil
}

func (s *EmailService) SendEmail(ctx context.Context, to, subject, html, text string) bool {
	log := s.log.Function("SendEmail")

	if !s.Enabled() {
		log.Warn("SMTP not configured, skipping email", "subject", subject)
		return false
	}

	if to == "" {
		log.Warn("Recipient address empty, skipping email", "subject", subject)
		return false
	}

	if err := ctx.Err(); err != nil {
		log.Er("context done before sending email", err, "subject", subject)
		return false
	}

	message, err := buildMessage(s.from, to, subject, html, text, s.now())
	if err != nil {
		log.Er("failed to build email", err, "subject", subject)
		return false
	}

	if err := s.client.DialAndSendWithContext(ctx, message); err != nil {
		log.Er("failed to send email", err, "subject", subject)
		return false
	}

	log.Info("Email sent", "subject", subject)
	return true
}

// buildMessage assembles a multipart/alternative message. Header values are encoded by
// go-mail, so control characters in the subject cannot start a new header.
func buildMessage(from, to, subject, html, text string, now time.Time) (*mail.Msg, error) {
	if text == "" {
		text = stripTags(html)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetDateWithValue(now)
	msg.SetMessageID()

	msg.SetBodyString(mail.TypeTextPlain, text)
	if html != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	}

	return msg, nil
}

func stripTags(html string) string {
	var out strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return strings.TrimSpace(out.String())
}
