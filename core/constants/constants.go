package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Scheduler defaults
const (
	// DefaultMaxGenerationCycles caps the occurrence generation loop so a
	// misconfigured rule can never spin forever. Overridable via config so
	// the guard path is testable with a small cap.
	DefaultMaxGenerationCycles = 1000
)
