package notifier

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"AltSentinel/internal/config"
)

// Notifier delivers one composed alert message.
type Notifier interface {
	Notify(ctx context.Context, msg *Message) error
}

// MailNotifier sends alert messages over SMTP with STARTTLS.
type MailNotifier struct {
	cfg config.EmailConfig
}

// NewMailNotifier creates a notifier for the configured account.
func NewMailNotifier(cfg config.EmailConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg}
}

// Notify sends the message, retrying transient failures with
// exponential backoff. A final failure is the run's fatal error; history
// already persisted is unaffected.
func (n *MailNotifier) Notify(ctx context.Context, msg *Message) error {
	m := mail.NewMsg()
	if err := m.From(n.cfg.Address); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(n.cfg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	for name, png := range msg.Inline {
		if err := m.EmbedReader(name, bytes.NewReader(png)); err != nil {
			return fmt.Errorf("embed %s: %w", name, err)
		}
	}

	client, err := mail.NewClient(n.cfg.SMTPHost,
		mail.WithPort(n.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Address),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	operation := func() error {
		if err := client.DialAndSendWithContext(ctx, m); err != nil {
			log.Warn().Err(err).Msg("mail delivery attempt failed")
			return err
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}
	log.Info().Str("subject", msg.Subject).Int("attachments", len(msg.Inline)).Msg("alert mail sent")
	return nil
}
