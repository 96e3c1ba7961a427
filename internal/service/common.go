package service

import (
	"time"
)

// storeTime matches the millisecond UTC precision timestamps come back with from the store.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func clampLimit(limit, def, maxLimit int64) int64 {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
