// Package logging provides the component loggers used across cellgrid. Loggers
// wrap log/slog, tag every record with the component and session, and expose
// helpers for the events the display reports.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}
	return "", apperrors.Newf(apperrors.ErrCodeInvalidInput, "unknown log level %q", s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format selects the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Options configures a Logger.
type Options struct {
	Level     Level
	Format    Format
	Output    io.Writer
	SessionID string
}

// Logger is a structured logger for one component.
type Logger struct {
	*slog.Logger
	sessionID string
}

// New creates a logger tagged with component. A missing output discards
// records; a missing session id gets a fresh one.
func New(component string, opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = NewSessionID()
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level.slogLevel()}
	var handler slog.Handler
	if opts.Format == FormatText {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "cellgrid"),
		slog.String("session_id", sessionID),
	)
	return &Logger{Logger: logger, sessionID: sessionID}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return New("discard", Options{Output: io.Discard})
}

// NewSessionID returns a sortable unique session id.
func NewSessionID() string {
	return ulid.Make().String()
}

// OpenSessionFile opens dir/sessions/<sessionID>.jsonl for appending,
// creating the directories as needed.
func OpenSessionFile(dir, sessionID string) (*os.File, error) {
	sessionsDir := filepath.Join(dir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	f, err := os.OpenFile(
		filepath.Join(sessionsDir, sessionID+".jsonl"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	return f, nil
}

// SessionID returns the session the logger tags records with.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// WithComponent returns a logger for a sub-component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(slog.String("subcomponent", name)),
		sessionID: l.sessionID,
	}
}

// WithViewport returns a logger with viewport fields.
func (l *Logger) WithViewport(kind string, area fmt.Stringer) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("viewport", kind),
			slog.String("viewport_area", area.String()),
		),
		sessionID: l.sessionID,
	}
}

// FrameDrawn logs a completed frame.
func (l *Logger) FrameDrawn(frame uint64, updates, actions int, d time.Duration) {
	l.Debug("frame drawn",
		slog.Uint64("frame", frame),
		slog.Int("updates", updates),
		slog.Int("actions", actions),
		slog.Float64("duration_ms", float64(d.Microseconds())/1000),
	)
}

// Resized logs a viewport resize.
func (l *Logger) Resized(from, to fmt.Stringer) {
	l.Info("viewport resized",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

// DrawFailed logs a frame that could not be drawn.
func (l *Logger) DrawFailed(frame uint64, err error) {
	l.Error("draw failed",
		slog.Uint64("frame", frame),
		slog.String("code", string(apperrors.GetCode(err))),
		slog.String("error", err.Error()),
	)
}

// CursorQueryFailed logs a cursor position round trip that failed.
func (l *Logger) CursorQueryFailed(err error) {
	l.Warn("cursor query failed",
		slog.String("code", string(apperrors.GetCode(err))),
		slog.String("error", err.Error()),
	)
}

// ExtensionRegistered logs an extension added to the renderer chain.
func (l *Logger) ExtensionRegistered(name string) {
	l.Debug("extension registered", slog.String("extension", name))
}
