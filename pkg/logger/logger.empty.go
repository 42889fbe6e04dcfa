//go:build logless

package logger

type Logger interface {
	Debug() Event
	Info() Event
	Warn() Event
	Error() Event
	With(component string) Logger
}

type Event interface {
	Str(key, value string) Event
	Int(key string, value int) Event
	Float(key string, value float64) Event
	Err(err error) Event
	Msg(message string)
}

// EmptyLog is a zero-cost Logger/Event implementation selected by the
// "logless" build tag, matching the teacher's pkg/core/logger.EmptyLog.
type EmptyLog struct{}

var Log Logger = EmptyLog{}

func New(component string) Logger { return EmptyLog{} }

func (l EmptyLog) Debug() Event                { return l }
func (l EmptyLog) Info() Event                 { return l }
func (l EmptyLog) Warn() Event                 { return l }
func (l EmptyLog) Error() Event                { return l }
func (l EmptyLog) With(string) Logger          { return l }
func (l EmptyLog) Str(string, string) Event    { return l }
func (l EmptyLog) Int(string, int) Event       { return l }
func (l EmptyLog) Float(string, float64) Event { return l }
func (l EmptyLog) Err(error) Event             { return l }
func (l EmptyLog) Msg(string)                  {}
