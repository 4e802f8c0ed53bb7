package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	gomail "github.com/wneessen/go-mail"
)

// smtpMailer sends notification messages over SMTP
type smtpMailer struct {
	client   *gomail.Client
	settings *config.MailSettings
	logger   logger.Logger
}

// NewSMTPMailer creates a mailer for the configured relay. Connections are opened per send.
func NewSMTPMailer(settings *config.MailSettings, logger logger.Logger) (notifications.Mailer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	opts := []gomail.Option{gomail.WithPort(settings.Port)}
	if settings.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if settings.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(settings.Username),
			gomail.WithPassword(settings.Password),
		)
	}

	client, err := gomail.NewClient(settings.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &smtpMailer{client: client, settings: settings, logger: logger}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg *notifications.Message) error {
	mm, err := buildMessage(m.settings.From, msg)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send %q: %w", msg.Subject, err)
	}

	m.logger.Info(fmt.Sprintf("Sent %q to %d recipients", msg.Subject, len(msg.To)))
	return nil
}

// buildMessage renders msg as a multipart/alternative email with a text body and an HTML alternative
func buildMessage(from string, msg *notifications.Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("message has no recipients")
	}

	mm := gomail.NewMsg()
	if err := mm.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", from, err)
	}
	if err := mm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		mm.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return mm, nil
}
