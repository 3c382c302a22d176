package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx carries the log context of the place an error was raised.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// ErrorCtx lays the log context carried by err over the one in ctx. Fields the error
// did not record (typically the request id of an HTTP caller, or a session id set
// after the error was raised) keep their ctx values.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return WithLogCtx(ctx, e.logCtx)
	}
	return ctx
}
