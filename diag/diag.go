// Package diag provides the leveled diagnostic stream used by the decoding
// and framing packages. The core packages never write to an output stream
// directly; they report through an injected Logger so the embedding
// application decides where diagnostics go (DOM log element, stdout, nothing).
package diag

import "log"

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Func adapts a single sink function to Logger.
type Func func(level Level, format string, args ...interface{})

func (f Func) Infof(format string, args ...interface{})  { f(LevelInfo, format, args...) }
func (f Func) Warnf(format string, args ...interface{})  { f(LevelWarn, format, args...) }
func (f Func) Errorf(format string, args ...interface{}) { f(LevelError, format, args...) }

// Discard drops all diagnostics.
var Discard Logger = Func(func(Level, string, ...interface{}) {})

// Std reports through the standard library logger.
func Std() Logger {
	return Func(func(level Level, format string, args ...interface{}) {
		log.Printf("["+level.String()+"] "+format, args...)
	})
}
