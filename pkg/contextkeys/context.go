package contextkeys

// Custom key type to avoid collisions with other packages writing
// into the same request context.
type contextKey string

// DBContextKey holds the *gorm.DB (pool or test transaction) for the request.
const DBContextKey = contextKey("db")

// SessionContextKey holds the *coordinator.Session of the authenticated user.
const SessionContextKey = contextKey("session")
