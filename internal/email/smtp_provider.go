package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail over SMTP via gomail.
type SMTPProvider struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

func NewSMTPProvider(config Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPProvider{
		config:    config,
		templates: tm,
		dialer: gomail.NewDialer(
			config.SMTPHost,
			config.SMTPPort,
			config.Username,
			config.Password,
		),
	}, nil
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendPasswordReset(to, displayName, resetURL string) error {
	htmlBody, err := p.templates.Render("password_reset", TemplateData{
		"DisplayName": displayName,
		"ResetURL":    resetURL,
		"FromName":    p.config.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render password reset mail: %w", err)
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  "Password recovery",
		HTMLBody: htmlBody,
	})
}

func (p *SMTPProvider) Close() error {
	// gomail dials per send; nothing to release.
	return nil
}
