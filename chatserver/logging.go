package chatserver

import (
	"io"
	"log/slog"

	"hermannm.dev/devlog"
)

// NewLogger builds the structured logger every connection and the accept
// loop log through, grounded on the devlog.NewHandler wiring the pack's
// service-shaped repo uses for its own slog setup.
func NewLogger(out io.Writer, debug bool) *slog.Logger {
	var level slog.LevelVar
	if debug {
		level.Set(slog.LevelDebug)
	}
	handler := devlog.NewHandler(out, &devlog.Options{
		Level: &level,
	})
	return slog.New(handler)
}
