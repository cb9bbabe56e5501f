package email

// Provider is the outbound notification channel. Callers treat delivery
// as fire-and-forget: a send failure is logged, never propagated into the
// caller's success response.
type Provider interface {
	// Send delivers a fully-built message.
	Send(email *Email) error

	// SendPasswordReset delivers the recovery mail carrying the
	// redemption URL. The raw token only ever travels inside resetURL.
	SendPasswordReset(to, displayName, resetURL string) error

	// Close releases provider resources.
	Close() error
}
