package logger

// Config holds logger settings decoded from the [log] section.
type Config struct {
	// Level is one of trace, debug, info, warning, error or fatal.
	Level string `mapstructure:"level"`
	// Format is json or text.
	Format string `mapstructure:"format"`

	SentryDSN         string `mapstructure:"sentry_dsn"`
	SentryEnvironment string `mapstructure:"sentry_environment"`

	// Table enables the database appender when set.
	Table string `mapstructure:"table"`
}

// DefaultConfig returns the settings used when the [log] section is missing.
func DefaultConfig() Config {
	return Config{
		Level:             "info",
		Format:            "json",
		SentryEnvironment: "production",
	}
}
