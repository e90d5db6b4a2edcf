package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a LOG_LEVEL string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger provides leveled, component-scoped logging over the stdlib logger.
type Logger struct {
	level     Level
	component string
}

// New creates a logger for one component, with the level taken from the
// LOG_LEVEL environment variable.
func New(component string) *Logger {
	return NewWithLevel(component, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithLevel creates a logger with an explicit level.
func NewWithLevel(component string, level Level) *Logger {
	return &Logger{level: level, component: component}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[ERROR] ["+l.component+"] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[WARN] ["+l.component+"] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[INFO] ["+l.component+"] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[DEBUG] ["+l.component+"] "+format, args...)
	}
}

// Level returns the current log level
func (l *Logger) Level() Level {
	return l.level
}
