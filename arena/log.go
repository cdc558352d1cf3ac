package arena

import (
	"io"
	"log/slog"
	"os"
)

// logAlloc turns on debug logging for arenas constructed without a Logger.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

func newLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// debugf emits a debug event. Callers on hot paths check a.debug first so
// the attribute list is never built when nobody listens.
func (a *Arena) debugf(msg string, args ...any) {
	a.log.Debug(msg, args...)
}
