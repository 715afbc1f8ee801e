// Package slogx holds small log/slog attribute helpers shared across packages.
package slogx

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// KeyLoggerName is the attribute key naming the component that logged.
const KeyLoggerName = "logger"

// Error returns an "error" attribute holding the message of err.
// A nil error yields an empty message.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Stringer logs value through its String method.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName returns the attribute that names a component logger.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Truncated logs at most limit bytes of value, marking the cut with an ellipsis.
// Raw payloads can be arbitrarily large. The cut never splits a UTF-8 sequence.
func Truncated(key, value string, limit int) slog.Attr {
	if limit <= 0 || len(value) <= limit {
		return slog.String(key, value)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return slog.String(key, value[:cut]+"…")
}
