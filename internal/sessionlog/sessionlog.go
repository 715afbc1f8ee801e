// Package sessionlog appends a timestamped transcript of a session to a
// plain text file under <dir>/logs. Writing is best effort: failures are
// logged and never interrupt the caller.
package sessionlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/casualjim/genwire/pkg/slogx"
	"github.com/go-openapi/strfmt"
)

// Path returns the transcript file of sessionID under dir.
func Path(dir, sessionID string) string {
	return filepath.Join(dir, "logs", "session-"+sessionID+".txt")
}

// Append writes one "[timestamp] text" line to the transcript of sessionID.
func Append(dir, sessionID, text string) {
	if err := appendLine(Path(dir, sessionID), time.Now(), text); err != nil {
		slog.Warn("failed to write session log",
			slogx.LoggerName("sessionlog"),
			slog.String("session", sessionID),
			slogx.Error(err),
		)
	}
}

func appendLine(path string, at time.Time, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "[%s] %s\n", strfmt.DateTime(at.UTC()), text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Logger binds a directory and a session.
type Logger struct {
	dir       string
	sessionID string
	mu        sync.Mutex
}

// New creates a Logger. An empty dir disables it.
func New(dir, sessionID string) *Logger {
	return &Logger{dir: dir, sessionID: sessionID}
}

func (l *Logger) SessionID() string {
	return l.sessionID
}

// Path returns the transcript file, or "" when the logger is disabled.
func (l *Logger) Path() string {
	if l == nil || l.dir == "" {
		return ""
	}
	return Path(l.dir, l.sessionID)
}

// Log appends text to the transcript. Safe for concurrent use.
func (l *Logger) Log(text string) {
	if l == nil || l.dir == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	Append(l.dir, l.sessionID, text)
}

// Logf formats and appends a line.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}
