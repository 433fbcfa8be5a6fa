package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/admin-console/internal/config"
)

type Service interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendWelcome(ctx context.Context, to, name string) error
}

// NewService sends over SMTP when a host is configured and only logs the
// messages otherwise.
func NewService(cfg config.SMTPConfig, logger *zerolog.Logger) Service {
	if cfg.Host == "" {
		return &logService{logger: logger, resetURL: cfg.ResetURL}
	}
	return &smtpService{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		resetURL: cfg.ResetURL,
		logger:   logger,
	}
}

type smtpService struct {
	dialer   *gomail.Dialer
	from     string
	resetURL string
	logger   *zerolog.Logger
}

func (s *smtpService) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return s.send(ctx, to, "Reset your Hospitalis password", resetBody(name, s.resetURL, token))
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Welcome to Hospitalis", welcomeBody(name))
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

type logService struct {
	logger   *zerolog.Logger
	resetURL string
}

func (s *logService) SendPasswordReset(_ context.Context, to, name, token string) error {
	s.logger.Info().Str("to", to).Str("body", resetBody(name, s.resetURL, token)).Msg("password reset email (not sent, smtp disabled)")
	return nil
}

func (s *logService) SendWelcome(_ context.Context, to, name string) error {
	s.logger.Info().Str("to", to).Str("body", welcomeBody(name)).Msg("welcome email (not sent, smtp disabled)")
	return nil
}

func resetBody(name, resetURL, token string) string {
	return fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s?token=%s\n\nIf you did not ask for this, ignore this message.\n", name, resetURL, token)
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Hello %s,\n\nYour Hospitalis account is ready. You can now sign in to the doctor dashboard.\n", name)
}
