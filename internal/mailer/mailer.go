// Package mailer sends account mail through an SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"meetup/internal/config"
	"meetup/internal/middleware"

	"gopkg.in/gomail.v2"
)

// Mailer delivers account verification mail.
type Mailer interface {
	SendVerification(ctx context.Context, to, firstName, key string) error
}

// New returns an SMTP mailer when SMTP_HOST is set and a log-only mailer otherwise.
func New(cfg *config.Config) Mailer {
	if !cfg.MailEnabled() {
		return LogMailer{BaseURL: cfg.PublicBaseURL}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends through gomail.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:    cfg.SMTPFrom,
		baseURL: cfg.PublicBaseURL,
	}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, firstName, key string) error {
	msg := verificationMessage(m.from, to, firstName, VerificationLink(m.baseURL, key))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "verification mail sent", slog.String("to", to))
	return nil
}

// LogMailer writes the verification link to the log instead of sending it.
type LogMailer struct {
	BaseURL string
}

func (m LogMailer) SendVerification(ctx context.Context, to, _, key string) error {
	middleware.Logger.InfoContext(ctx, "mail disabled, verification link logged",
		slog.String("to", to),
		slog.String("link", VerificationLink(m.BaseURL, key)),
	)
	return nil
}

// VerificationLink builds the URL a new member follows to confirm their email.
func VerificationLink(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/verify?key=" + url.QueryEscape(key)
}

func verificationMessage(from, to, firstName, link string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your meetup account")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address to start posting meetups:\n%s\n", firstName, link))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<p>Hi %s,</p><p>Confirm your email address to start posting meetups:</p><p><a href="%s">%s</a></p>`,
		firstName, link, link))
	return msg
}
