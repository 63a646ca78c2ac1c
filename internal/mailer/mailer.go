// Package mailer sends the new-request notification mail. Delivery is
// best effort: the submission flow treats a send failure as a logged
// warning, never as a request failure.
package mailer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
)

const defaultTimeout = 15 * time.Second

// Mailer delivers notification mails over SMTP. Connection settings
// come from the settings store first and fall back to the static
// configuration, so admins can change them at runtime.
type Mailer struct {
	settings *setting.Store
	cfg      *config.Config
}

type smtpSettings struct {
	server   string
	port     int
	username string
	password string
	from     string
	to       string
	adminURL string
}

// New creates a Mailer.
func New(settings *setting.Store, cfg *config.Config) (*Mailer, error) {
	if settings == nil {
		return nil, ErrSettingsNil
	}

	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Mailer{settings: settings, cfg: cfg}, nil
}

// NotifyNewRequest mails the configured recipient about a newly
// submitted request. It returns an error when delivery fails so the
// caller can log it, but callers must not fail the submission on it.
func (m *Mailer) NotifyNewRequest(ctx context.Context, requesterName, department, category, description string) error {
	smtp, err := m.effective()
	if err != nil {
		return err
	}

	if smtp.server == "" || smtp.from == "" || smtp.to == "" {
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(smtp.from); err != nil {
		return err
	}

	if err := msg.To(smtp.to); err != nil {
		return err
	}

	msg.Subject("New IT Service Request from " + requesterName)
	msg.SetBodyString(mail.TypeTextPlain, composeBody(requesterName, department, category, description, smtp.adminURL))

	opts := []mail.Option{
		mail.WithPort(smtp.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.timeout()),
	}

	if smtp.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(smtp.username),
			mail.WithPassword(smtp.password),
		)
	}

	client, err := mail.NewClient(smtp.server, opts...)
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return err
	}

	log.Debug().Str("to", smtp.to).Str("requester", requesterName).Msg("sent new request notification")

	return nil
}

// effective resolves each SMTP value from the settings store, falling
// back to the static configuration for values the store does not have.
func (m *Mailer) effective() (smtpSettings, error) {
	smtp := smtpSettings{
		server:   m.cfg.SMTP.Server,
		port:     m.cfg.SMTP.Port,
		username: m.cfg.SMTP.Username,
		password: m.cfg.SMTP.Password,
		from:     m.cfg.SMTP.From,
		to:       m.cfg.SMTP.To,
	}

	resolve := map[string]*string{
		setting.KeySMTPServer:   &smtp.server,
		setting.KeySMTPUsername: &smtp.username,
		setting.KeySMTPPassword: &smtp.password,
		setting.KeySMTPFrom:     &smtp.from,
		setting.KeySMTPTo:       &smtp.to,
	}

	for key, target := range resolve {
		value, err := m.settings.GetEffective(key)
		if err != nil {
			if errors.Is(err, setting.ErrSettingNotFound) {
				continue
			}

			return smtpSettings{}, err
		}

		if value != "" {
			*target = value
		}
	}

	if value, err := m.settings.GetEffective(setting.KeySMTPPort); err == nil && value != "" {
		if port, convErr := strconv.Atoi(value); convErr == nil && port > 0 {
			smtp.port = port
		}
	}

	if value, err := m.settings.GetEffective(setting.KeyAdminURL); err == nil && value != "" {
		smtp.adminURL = value
	}

	if smtp.port == 0 {
		smtp.port = 587
	}

	return smtp, nil
}

func (m *Mailer) timeout() time.Duration {
	if m.cfg.SMTP.Timeout > 0 {
		return m.cfg.SMTP.Timeout
	}

	return defaultTimeout
}

func composeBody(requesterName, department, category, description, adminURL string) string {
	body := fmt.Sprintf(
		"A new service request has been submitted.\n\n"+
			"Requester:   %s\n"+
			"Department:  %s\n"+
			"Category:    %s\n\n"+
			"Description:\n%s\n",
		requesterName, department, category, description,
	)

	if adminURL != "" {
		body += fmt.Sprintf("\nReview it at %s\n", adminURL)
	}

	return body
}
