package cctx

import "context"

// WithValues layers key/value pairs onto parent. Panics on an odd number of
// arguments.
func WithValues(parent context.Context, values ...any) (ctx context.Context) {
	if len(values)%2 != 0 {
		panic("uneven")
	}

	ctx = parent
	for i := 0; i < len(values); i += 2 {
		ctx = context.WithValue(ctx, values[i], values[i+1])
	}
	return
}
