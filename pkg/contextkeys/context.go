package contextkeys

// Custom type so the keys cannot collide with other packages.
type contextKey string

// Request-scoped values carried through context.Context.
const (
	// RequestIDKey holds the per-request correlation ID.
	RequestIDKey = contextKey("request_id")
	// UserIDKey holds the authenticated user's ID, when present.
	UserIDKey = contextKey("user_id")
)
