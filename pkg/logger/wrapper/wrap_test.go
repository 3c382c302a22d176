package wrap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogCtx_MergesExisting(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")
	ctx = WithLogCtx(ctx, LogCtx{Action: "register_user", SessionID: "s-1"})

	lc := FromContext(ctx)
	assert.Equal(t, "user-1", lc.UserID)
	assert.Equal(t, "register_user", lc.Action)
	assert.Equal(t, "s-1", lc.SessionID)
}

func TestError_CarriesContext(t *testing.T) {
	base := errors.New("send failed")
	ctx := WithAction(context.Background(), "emit_location")

	err := Error(ctx, base)
	require.ErrorIs(t, err, base)

	restored := FromContext(ErrorCtx(context.Background(), err))
	assert.Equal(t, "emit_location", restored.Action)
}

func TestError_RewrapKeepsChain(t *testing.T) {
	base := errors.New("dial failed")
	inner := Error(WithAction(context.Background(), "dial"), base)
	outer := Error(WithAction(context.Background(), "connect"), fmt.Errorf("connect: %w", inner))

	require.ErrorIs(t, outer, base)
	assert.Equal(t, "connect", FromContext(ErrorCtx(context.Background(), outer)).Action)
	assert.Equal(t, "connect: dial failed", outer.Error())
}

func TestError_Nil(t *testing.T) {
	assert.NoError(t, Error(context.Background(), nil))
}

func TestErrorCtx_KeepsCallerFields(t *testing.T) {
	inner := WithLogCtx(context.Background(), LogCtx{Action: "session_recover", SessionID: "3", UserID: "user-1"})
	err := Error(inner, errors.New("retry budget exhausted"))

	caller := WithLogCtx(context.Background(), LogCtx{Action: "update_location", RequestID: "req-9"})
	lc := FromContext(ErrorCtx(caller, err))

	assert.Equal(t, "session_recover", lc.Action)
	assert.Equal(t, "3", lc.SessionID)
	assert.Equal(t, "user-1", lc.UserID)
	assert.Equal(t, "req-9", lc.RequestID)
}

func TestErrorCtx_PlainError(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, ctx, ErrorCtx(ctx, errors.New("plain")))
}
