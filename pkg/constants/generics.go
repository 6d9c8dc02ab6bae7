package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// DefaultRequestTimeout bounds the context handed to handlers.
const DefaultRequestTimeout = 30 * time.Second

// DefaultShutdownTimeout bounds graceful HTTP shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// MaxEmailLength matches the width of waitlist_entries.email.
const MaxEmailLength = 255

// DefaultSignupStream is the Redis stream receiving waitlist signup events.
const DefaultSignupStream = "waitlist:signups"

// DefaultSQLiteDatabaseURL is used when no database is configured at all.
const DefaultSQLiteDatabaseURL = "sqlite:///./buildrs.db"
