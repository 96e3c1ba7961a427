package logger

import (
	"io"
	log "log/slog"
	"os"
)

// LogWriter is shared with the gin access log so both streams land in the same sink.
var LogWriter io.Writer = os.Stdout

// InitLogger installs the JSON handler with trace_id propagation as the slog default.
func InitLogger(debug bool) {
	level := log.LevelInfo
	if debug {
		level = log.LevelDebug
	}
	handler := log.NewJSONHandler(LogWriter, &log.HandlerOptions{Level: level})
	log.SetDefault(log.New(&ContextHandler{handler}))
}
