package logger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
)

// WatermillAdapter bridges the service logger to watermill's
// LoggerAdapter. Trace output is dropped; everything else maps to the
// corresponding level.
type WatermillAdapter struct {
	log    *Logger
	fields watermill.LogFields
}

// NewWatermillAdapter wraps the service logger for watermill components.
func NewWatermillAdapter(log *Logger) *WatermillAdapter {
	return &WatermillAdapter{log: log}
}

// Error logs a message with an error at error level.
func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error("watermill: %s: %v%s", msg, err, formatFields(a.fields.Add(fields)))
}

// Info logs at info level.
func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info("watermill: %s%s", msg, formatFields(a.fields.Add(fields)))
}

// Debug logs at debug level.
func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug("watermill: %s%s", msg, formatFields(a.fields.Add(fields)))
}

// Trace is dropped; the service logger has no trace level.
func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {}

// With returns an adapter carrying the extra fields.
func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{log: a.log, fields: a.fields.Add(fields)}
}

func formatFields(fields watermill.LogFields) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return " [" + strings.Join(parts, " ") + "]"
}
