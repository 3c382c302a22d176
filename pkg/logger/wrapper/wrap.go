package wrap

import (
	"context"
)

// Error wraps an error with the current LogCtx from the context.
// ErrorCtx returns the outermost LogCtx, so rewrapping an already wrapped
// error effectively updates its context while keeping the chain intact.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}
