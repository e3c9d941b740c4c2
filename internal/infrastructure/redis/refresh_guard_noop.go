package redisstore

import "context"

// NoopGuard always succeeds; useful for tests/dev when Redis is disabled.
type NoopGuard struct{}

func (NoopGuard) TryReserve(context.Context, string) (bool, error) { return true, nil }
