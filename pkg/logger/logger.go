//go:build !logless

// Package logger provides the scoped, leveled logging interface the lstm
// package's orchestrators are constructed with. The default build is backed
// by zerolog; building with the "logless" tag swaps in a zero-cost no-op
// implementation (see logger.empty.go).
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Logger is a scoped, leveled logger. Each level method returns an Event
// that can be annotated with fields before Msg flushes it.
type Logger interface {
	Debug() Event
	Info() Event
	Warn() Event
	Error() Event
	With(component string) Logger
}

// Event is a single in-flight log record being built up with fields.
type Event interface {
	Str(key, value string) Event
	Int(key string, value int) Event
	Float(key string, value float64) Event
	Err(err error) Event
	Msg(message string)
}

// Log is the process-wide default logger, matching the teacher's
// package-level convenience variable. Orchestrators should prefer an
// injected Logger over this global.
var Log Logger = zerologLogger{
	l: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger(),
}

// New returns a zerolog-backed Logger scoped to component.
func New(component string) Logger {
	return Log.With(component)
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Debug() Event { return zerologEvent{z.l.Debug()} }
func (z zerologLogger) Info() Event  { return zerologEvent{z.l.Info()} }
func (z zerologLogger) Warn() Event  { return zerologEvent{z.l.Warn()} }
func (z zerologLogger) Error() Event { return zerologEvent{z.l.Error()} }

func (z zerologLogger) With(component string) Logger {
	return zerologLogger{l: z.l.With().Str("component", component).Logger()}
}

type zerologEvent struct {
	e *zerolog.Event
}

func (z zerologEvent) Str(key, value string) Event {
	z.e.Str(key, value)
	return z
}

func (z zerologEvent) Int(key string, value int) Event {
	z.e.Int(key, value)
	return z
}

func (z zerologEvent) Float(key string, value float64) Event {
	z.e.Float64(key, value)
	return z
}

func (z zerologEvent) Err(err error) Event {
	z.e.Err(err)
	return z
}

func (z zerologEvent) Msg(message string) {
	z.e.Msg(message)
}
