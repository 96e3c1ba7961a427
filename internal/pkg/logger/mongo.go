package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const mongoSlowThreshold = 200 * time.Millisecond

// NewMongoMonitor logs failed commands and commands slower than mongoSlowThreshold.
func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if evt.Duration > mongoSlowThreshold {
				log.WarnContext(ctx, "MongoDB Slow",
					"command", evt.CommandName,
					"database", evt.DatabaseName,
					"latency", evt.Duration,
					"request_id", evt.RequestID,
				)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				"command", evt.CommandName,
				"database", evt.DatabaseName,
				"latency", evt.Duration,
				"request_id", evt.RequestID,
				"err", evt.Failure,
			)
		},
	}
}
