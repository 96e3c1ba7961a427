package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TraceIDKey is the context and gin key carrying the request trace id.
const TraceIDKey = "trace_id"

// ContextHandler adds trace_id from ctx to every record.
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String("trace_id", traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// JobContext returns a background context tagged with a fresh "<prefix>-<uuid>" trace id.
func JobContext(prefix string) context.Context {
	return context.WithValue(context.Background(), TraceIDKey, prefix+"-"+uuid.NewString())
}
