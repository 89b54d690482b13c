// Package dlog provides the small leveled-logging façade the CLI and
// witness layers use, trimmed from internal/dcontext/logger.go's Logger
// interface to the handful of methods this system actually calls, with
// field attachment kept: WithField/WithError return a derived Logger
// rather than mutating the receiver, mirroring
// dcontext.GetLoggerWithField's "derive, don't mutate" discipline.
package dlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled, field-carrying logging interface the CLI and
// witness layers depend on, rather than a concrete *logrus.Logger, so
// call sites can stamp structured fields (e.g. "op", "pack_id") without
// reaching into logrus directly.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)

	// WithField and WithError return a new Logger carrying the extra
	// field/error, leaving the receiver unchanged.
	WithField(key string, value any) Logger
	WithError(err error) Logger
}

// entryLogger implements Logger over a *logrus.Entry, the same type
// internal/dcontext/logger.go builds its Logger interface on.
type entryLogger struct {
	entry *logrus.Entry
}

// New returns a Logger configured the way the teacher's
// cmd/registry/main.go configures its default logger: text formatting,
// info level, writing to stderr so stdout stays reserved for the
// machine-readable --json report output.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return &entryLogger{entry: logrus.NewEntry(l)}
}

func (l *entryLogger) Info(args ...any)                  { l.entry.Info(args...) }
func (l *entryLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *entryLogger) Warn(args ...any)                  { l.entry.Warn(args...) }
func (l *entryLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *entryLogger) Error(args ...any)                 { l.entry.Error(args...) }
func (l *entryLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *entryLogger) WithField(key string, value any) Logger {
	return &entryLogger{entry: l.entry.WithField(key, value)}
}

func (l *entryLogger) WithError(err error) Logger {
	return &entryLogger{entry: l.entry.WithError(err)}
}
