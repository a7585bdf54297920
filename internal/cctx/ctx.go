package cctx

import "context"

type ContextKey string

var (
	RequestID ContextKey = "mb:rid"
)

// RequestIDFrom returns the request id stored in ctx, or an empty string.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(RequestID).(string)
	return rid
}
