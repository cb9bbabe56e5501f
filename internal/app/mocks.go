package app

import "travel_backend/internal/email"

// MockEmailProvider is used in tests and when SMTP is not configured.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }

func (m *MockEmailProvider) SendPasswordReset(to, displayName, resetURL string) error {
	return nil
}

func (m *MockEmailProvider) Close() error { return nil }
