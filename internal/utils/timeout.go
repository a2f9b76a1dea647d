package utils

import (
	"context"
	"time"
)

const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}

// WithDetachedTimeout keeps the values of ctx (logger, trace span) but not its cancellation,
// so work that must finish once started is bounded only by d.
func WithDetachedTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d)
}
