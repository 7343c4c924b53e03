// Package logging provides the CLI logger and redaction helpers. Secret
// material must never reach the log stream; wrap it in Secret before handing
// it to any formatting verb.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes human-oriented status lines to stderr. Debug lines are
// dropped unless debug mode is on.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: os.Stderr}
}

// NewWithWriter creates a logger writing to the given sink. Used by tests.
func NewWithWriter(debug, noColor bool, out io.Writer) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: out}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.emit("\033[32m", "✓", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.emit("\033[33m", "⚠", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.emit("\033[31m", "✗", format, args...)
}

// Debug logs a message only when debug mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.emit("\033[36m", "[DEBUG]", format, args...)
}

func (l *Logger) emit(color, glyph, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(l.out, "%s %s\n", glyph, msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, glyph, msg)
}

// Secret wraps a sensitive value so every formatting path redacts it.
type Secret string

// String implements fmt.Stringer, always returning a redacted value.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces known sensitive values in a string with [REDACTED].
// Values of three characters or fewer are left alone to avoid shredding
// ordinary text.
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if len(secret) > 3 {
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
