// Package logger builds the slog loggers used by the application, its
// controllers and the error handler.
//
// # Factories
//
// [New] returns a JSON logger on stdout at info level. [NewNope] discards
// everything and is the default wherever a logger is optional.
// [NewFromConfig] reads the [log] section of application.ini:
//
//	[production]
//	log.level      = warning
//	log.format     = json
//	log.sentry_dsn = https://key@sentry.example.com/1
//	log.table      = logs
//
//	var cfg logger.Config
//	_ = config.Decode(node.Child("log"), &cfg, logger.DefaultConfig())
//	log, err := logger.NewFromConfig(cfg, os.Stderr, extractors...)
//
// With a DSN set, warnings are also stored in Sentry and errors open issues
// there. An unreachable Sentry only costs a line on the base handler.
//
// # Levels
//
// Besides the slog levels there are [LevelTrace] and [LevelFatal]. Both are
// rendered by name and accepted by [ParseLevel] together with the
// "warning" spelling.
//
// # Database appender
//
// [NewDatabaseHandler] writes one row per record through an [Inserter].
// The application wraps its *db.Adapter in an [InserterFunc]. The row
// holds the fields of an [Event]: level, message, code, caller file and
// line, the remaining attributes as JSON and the timestamp. Errors are
// stored as their message and groups as nested objects. [Tee] attaches
// the handler to an existing logger:
//
//	appender := logger.NewDatabaseHandler(inserter, "logs", logger.WithMinLevel(slog.LevelWarn))
//	log = logger.Tee(log, appender)
//
// A failing handler does not keep the others from receiving the record.
//
// # Context extractors
//
// A [ContextExtractor] pulls one attribute out of the context of every log
// call, such as the request ID set by middlewares.RequestID:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "post published", "id", id)
//
// [NewLogHandlerDecorator] adds extractors to any slog.Handler.
package logger
