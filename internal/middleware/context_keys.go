package middleware

import (
	"context"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
)

const callerCtxKey = contextKey("caller")

// CallerFromCtx retrieves the authenticated caller from the context.
// It returns the caller and a boolean indicating if one was found.
func CallerFromCtx(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerCtxKey).(domain.Caller)
	return caller, ok
}

// WithCaller stores the caller in the context. Exported for tests.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey, caller)
}
