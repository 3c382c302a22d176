package session

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/metrics"
)

// listen delivers inbound events of one connection, in arrival order, until it fails.
func (c *Client) listen(conn Conn, generation uint64) {
	defer c.wg.Done()

	for {
		event, data, err := conn.Receive(c.lifeCtx)
		if err != nil {
			c.handleDisconnect(generation, err)
			return
		}

		c.dispatch(generation, types.Event(event), data)
	}
}

func (c *Client) dispatch(generation uint64, event types.Event, data json.RawMessage) {
	metrics.SessionMessagesReceived.WithLabelValues(event.String()).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	// events of a replaced connection are stale
	if generation != c.generation || c.state == types.StateClosed {
		return
	}

	ctx := wrap.WithLogCtx(c.lifeCtx, wrap.LogCtx{
		Action:    types.ActionSessionInbound,
		SessionID: c.sessionID(),
		UserID:    c.userID,
	})

	switch event {
	case types.EventRetryRegistration:
		c.onRetryRegistration(ctx)
	case types.EventTripPath:
		c.onTripPath(ctx, data)
	default:
		c.log.Debug(ctx, "ignoring unknown event", "event", event.String())
	}
}

func (c *Client) onRetryRegistration(ctx context.Context) {
	c.log.Info(ctx, "server requested registration")

	if err := c.registerLocked(ctx); err != nil {
		c.log.Error(wrap.ErrorCtx(ctx, err), "failed to re-register", err)
	}
}

func (c *Client) onTripPath(ctx context.Context, data json.RawMessage) {
	route := models.RouteUpdate{
		Payload:    bytes.Clone(data),
		UserID:     c.userID,
		ReceivedAt: c.now(),
	}
	if c.pending != nil {
		route.TripID = c.pending.ID
		ctx = wrap.WithTripID(ctx, c.pending.ID)
		c.clearPendingLocked()
	}

	c.routes.SetActiveRoute(ctx, route)
	c.log.Info(ctx, "active route updated", "bytes", len(data))

	if c.loading.IsLoading() {
		c.loading.StopLoading(ctx)
	}
}

func (c *Client) handleDisconnect(generation uint64, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.state == types.StateClosed || c.state == types.StateFailed {
		return
	}

	ctx := wrap.WithLogCtx(c.lifeCtx, wrap.LogCtx{
		Action:    types.ActionSessionRecover,
		SessionID: c.sessionID(),
	})

	c.log.Warn(ctx, "connection lost", "error", cause.Error())
	c.dropConnLocked(ctx)
	c.setStateLocked(types.StateDisconnected)
	c.lastErr = cause

	if !c.cfg.AutoReconnect || c.lifeCtx.Err() != nil {
		return
	}

	if err := c.recoverLocked(ctx, cause, recoverReconnect); err != nil {
		c.log.Error(wrap.ErrorCtx(ctx, err), "failed to restore session", err)
	}
}
