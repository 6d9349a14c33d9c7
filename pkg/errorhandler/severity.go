package errorhandler

import "log/slog"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityNotice Severity = iota
	SeverityDeprecated
	SeverityWarning
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityDeprecated:
		return "deprecated"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level maps the severity to the level it is logged at.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityNotice:
		return slog.LevelInfo
	case SeverityDeprecated, SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Fatal reports whether the severity stops execution.
func (s Severity) Fatal() bool {
	return s >= SeverityError
}
