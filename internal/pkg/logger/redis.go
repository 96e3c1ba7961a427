package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSlowThreshold = 50 * time.Millisecond

// RedisLoggerHook reports failed and slow Redis commands. redis.Nil is a miss, not an error.
type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error", "addr", addr, "err", err)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		s.report(ctx, cmd.Name(), 1, time.Since(start), err)
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		s.report(ctx, "pipeline", len(cmds), time.Since(start), err)
		return err
	}
}

func (s *RedisLoggerHook) report(ctx context.Context, name string, count int, elapsed time.Duration, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		log.ErrorContext(ctx, "Redis Error", "command", name, "cmd_count", count, "latency", elapsed, "err", err)
		return
	}
	if elapsed > redisSlowThreshold {
		log.WarnContext(ctx, "Redis Slow", "command", name, "cmd_count", count, "latency", elapsed)
	}
}
