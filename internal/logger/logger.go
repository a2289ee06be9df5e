package logger

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	level  string
	prefix string
	out    *log.Logger
}

func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Named returns a child logger whose messages are tagged with component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		level:  l.level,
		prefix: l.prefix + "[" + component + "] ",
		out:    l.out,
	}
}

// Writer is the destination shared by this logger and its children.
func (l *Logger) Writer() io.Writer {
	return l.out.Writer()
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level == "debug" || l.level == "info" {
		l.out.Printf("[INFO] "+l.prefix+msg, args...)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level == "debug" {
		l.out.Printf("[DEBUG] "+l.prefix+msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level != "error" {
		l.out.Printf("[WARN] "+l.prefix+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.out.Printf("[ERROR] "+l.prefix+msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.out.Printf("[FATAL] "+l.prefix+msg, args...)
	os.Exit(1)
}
