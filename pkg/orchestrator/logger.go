package orchestrator

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger defines the logging interface the orchestrator writes to.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// defaultLogger adapts logrus to the Logger interface.
type defaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger returns a structured logger scoped to the orchestrator.
func NewDefaultLogger() Logger {
	return &defaultLogger{
		entry: logrus.WithField("component", "orchestrator"),
	}
}

func (l *defaultLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Info(msg)
}

func (l *defaultLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l *defaultLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
