package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/carewise/triage-api/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendWelcome(ctx context.Context, to string, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour clinician account has been created. You can now sign in and submit intake cases.", name)
	return s.SendCustom(ctx, to, "Welcome to the triage console", body)
}

func (s *gomailService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
