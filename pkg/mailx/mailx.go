// Package mailx sends the handful of transactional emails the site needs
// over plain SMTP.
package mailx

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	client *mail.Client
	from   string
}

// New builds an SMTP mailer. The connection is dialed per send, so a broken
// mail server surfaces as a request error rather than a startup failure.
func New(cfg Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mailx: failed to build smtp client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From}, nil
}

// SendPasswordReset emails a reset link to the given address.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mailx: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailx: invalid recipient: %w", err)
	}
	msg.Subject("Password Reset")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		`<p>You requested a password reset.</p>
<p>Click this <a href="%s">link</a> to set a new password. The link expires in one hour.</p>
<p>If you didn't request this, you can ignore this email.</p>`, resetURL))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailx: failed to send reset email: %w", err)
	}
	return nil
}
