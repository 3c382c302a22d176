package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/metrics"
	"github.com/google/uuid"
)

type Config struct {
	Retry RetryPolicy
	// TripTimeout clears a loading indicator whose route never arrived. 0 disables it.
	TripTimeout time.Duration
	// AutoReconnect restores the session when the connection drops on its own.
	AutoReconnect bool
}

// Client owns a single connection to the navigation service.
//
// All operations and inbound handlers are serialized on one mutex, so at most one
// of them runs at a time and sinks are called from within that section. The mutex is
// released only while a recovery waits out its backoff.
// Sinks and providers must not call back into the Client.
type Client struct {
	dialer    Dialer
	users     UserProvider
	locations LocationProvider
	loading   LoadingSink
	routes    RouteSink
	cfg       Config
	log       logger.Logger

	// lifeCtx bounds listeners and recoveries started by the client itself.
	lifeCtx    context.Context
	lifeCancel context.CancelFunc
	wg         sync.WaitGroup

	mu         sync.Mutex
	conn       Conn
	generation uint64
	state      types.SessionState
	userID     string
	attempts   int
	lastErr    error
	pending    *pendingTrip

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type pendingTrip struct {
	models.PendingTrip
	timer *time.Timer
}

func New(
	dialer Dialer,
	users UserProvider,
	locations LocationProvider,
	loading LoadingSink,
	routes RouteSink,
	cfg Config,
	log logger.Logger,
) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		dialer:     dialer,
		users:      users,
		locations:  locations,
		loading:    loading,
		routes:     routes,
		cfg:        cfg,
		log:        log,
		lifeCtx:    ctx,
		lifeCancel: cancel,
		state:      types.StateDisconnected,
		sleep:      sleepCtx,
		now:        time.Now,
	}
}

// Connect opens a new connection, replacing and closing any existing one, and registers the user.
// A failure to open is returned as is; it is not retried. An explicit Connect restores the
// retry budget and leaves the failed state.
func (c *Client) Connect(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionConnect)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.StateClosed {
		return wrap.Error(ctx, types.ErrSessionClosed)
	}

	c.attempts = 0
	c.lastErr = nil

	if err := c.dialLocked(ctx); err != nil {
		return err
	}
	return c.registerLocked(ctx)
}

// RegisterUser (re)sends the registration for the current user, followed by the current location.
func (c *Client) RegisterUser(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.StateClosed {
		return wrap.Error(ctx, types.ErrSessionClosed)
	}
	return c.registerLocked(ctx)
}

// EmitLocation pushes the current location. It requires a registered session.
func (c *Client) EmitLocation(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.StateClosed {
		return wrap.Error(ctx, types.ErrSessionClosed)
	}
	return c.emitLocationLocked(ctx)
}

// StartTrip asks for a route from current to place. It returns once the request is sent;
// the route arrives later through tripPath.
func (c *Client) StartTrip(ctx context.Context, place models.Place, priority int, current models.Location) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionStartTrip)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.readyLocked(); err != nil {
		return wrap.Error(ctx, err)
	}

	req, err := models.NewTripRequest(place, priority, current)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("start trip: %w", err))
	}

	tripID := uuid.NewString()
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		UserID:    c.userID,
		SessionID: c.sessionID(),
		TripID:    tripID,
	})

	c.loading.StartLoading(ctx)
	if err := c.emitLocked(ctx, types.EventStartTrip, req); err != nil {
		// no route will come for a request that never left
		c.loading.StopLoading(ctx)
		c.log.Error(ctx, "failed to send trip request", err)
		return wrap.Error(ctx, err)
	}

	c.clearPendingLocked()
	c.pending = &pendingTrip{
		PendingTrip: models.PendingTrip{
			ID:        tripID,
			Priority:  priority,
			StartedAt: c.now(),
		},
	}
	if c.cfg.TripTimeout > 0 {
		c.pending.timer = time.AfterFunc(c.cfg.TripTimeout, func() {
			c.expireTrip(tripID)
		})
	}

	c.log.Info(ctx, "trip requested", "priority", priority)
	return nil
}

// EndTrip sends endTrip with an empty payload, whether or not a trip is active.
func (c *Client) EndTrip(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionEndTrip)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.StateClosed {
		return wrap.Error(ctx, types.ErrSessionClosed)
	}
	if c.conn == nil {
		return wrap.Error(ctx, types.ErrNotConnected)
	}

	ctx = wrap.WithUserID(ctx, c.userID)
	if c.pending != nil {
		ctx = wrap.WithTripID(ctx, c.pending.ID)
	}

	if err := c.emitLocked(ctx, types.EventEndTrip, models.EndTripPayload{}); err != nil {
		c.log.Error(ctx, "failed to send end trip", err)
		return wrap.Error(ctx, err)
	}

	if c.pending != nil {
		c.clearPendingLocked()
		if c.loading.IsLoading() {
			c.loading.StopLoading(ctx)
		}
	}

	return nil
}

// Close tears the session down for good and waits for the listener to exit.
func (c *Client) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionClose)

	c.lifeCancel()

	c.mu.Lock()
	if c.state == types.StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.clearPendingLocked()
	c.dropConnLocked(ctx)
	c.setStateLocked(types.StateClosed)
	c.mu.Unlock()

	c.wg.Wait()
	c.log.Info(ctx, "session closed")
	return nil
}

// State returns the current lifecycle state.
func (c *Client) State() types.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the session status.
func (c *Client) Snapshot() models.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.SessionSnapshot{
		State:     c.state,
		SessionID: c.generation,
		UserID:    c.userID,
		Connected: c.conn != nil,
		Attempts:  c.attempts,
	}
	if c.pending != nil {
		p := c.pending.PendingTrip
		snap.PendingTrip = &p
	}
	if c.lastErr != nil {
		snap.LastError = c.lastErr.Error()
	}
	return snap
}

// dialLocked replaces the connection handle. It does not register.
func (c *Client) dialLocked(ctx context.Context) error {
	if c.state == types.StateClosed {
		return wrap.Error(ctx, types.ErrSessionClosed)
	}

	c.dropConnLocked(ctx)
	c.setStateLocked(types.StateConnecting)

	conn, err := c.dialer.Dial(ctx)
	metrics.RecordSessionConnect(err)
	if err != nil {
		c.setStateLocked(types.StateDisconnected)
		c.lastErr = err
		c.log.Warn(ctx, "failed to open connection", "error", err.Error())
		return wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrDialFailed, err))
	}

	c.generation++
	c.conn = conn
	c.setStateLocked(types.StateConnectedUnregistered)

	c.wg.Add(1)
	go c.listen(conn, c.generation)

	c.log.Info(wrap.WithSessionID(ctx, c.sessionID()), "connection opened")
	return nil
}

// registerLocked fails closed: without an identity nothing is sent.
func (c *Client) registerLocked(ctx context.Context) error {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:    types.ActionSessionRegister,
		SessionID: c.sessionID(),
	})

	if c.conn == nil {
		return wrap.Error(ctx, types.ErrNotConnected)
	}
	c.setStateLocked(types.StateConnectedUnregistered)

	userID, err := c.users.UserID(ctx)
	if err == nil && userID == "" {
		err = types.ErrNoUserID
	}
	if err != nil {
		// the previous identity is no longer registered on this connection
		c.userID = ""
		c.lastErr = err
		c.log.Warn(ctx, "refusing to register without identity", "error", err.Error())
		return wrap.Error(ctx, fmt.Errorf("register user: %w", err))
	}
	ctx = wrap.WithUserID(ctx, userID)

	if err := c.emitLocked(ctx, types.EventRegisterUser, models.RegisterUserPayload{UserID: models.UserRef(userID)}); err != nil {
		c.log.Error(ctx, "failed to send registration", err)
		c.dropConnLocked(ctx)
		c.setStateLocked(types.StateDisconnected)
		return c.recoverLocked(ctx, err, recoverReconnect)
	}

	c.userID = userID
	c.setStateLocked(types.StateRegistered)
	c.log.Info(ctx, "user registered")

	if err := c.emitLocationLocked(ctx); err != nil {
		if errors.Is(err, types.ErrNoLocation) {
			c.log.Debug(ctx, "no location to report after registration")
			c.attempts = 0
			return nil
		}
		return err
	}

	return nil
}

func (c *Client) emitLocationLocked(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionEmitLocation)

	if err := c.readyLocked(); err != nil {
		return wrap.Error(ctx, err)
	}

	loc, ok := c.locations.Location(ctx)
	if !ok {
		return wrap.Error(ctx, types.ErrNoLocation)
	}

	if err := c.emitLocked(ctx, types.EventUpdateLocation, loc); err != nil {
		c.log.Error(ctx, "failed to send location", err)
		return c.recoverLocked(ctx, err, recoverReregister)
	}

	c.attempts = 0
	c.lastErr = nil
	return nil
}

// recoverLocked spends one attempt per try. Dial failures during a reconnect keep spending
// the budget; once it is exhausted the session moves to StateFailed.
//
// The backoff is waited out without holding c.mu. Close or an explicit Connect during
// the wait ends this recovery.
func (c *Client) recoverLocked(ctx context.Context, cause error, action recovery) error {
	ctx = wrap.WithAction(ctx, types.ActionSessionRecover)

	for {
		c.attempts++
		c.lastErr = cause

		if c.attempts > c.cfg.Retry.MaxAttempts {
			c.dropConnLocked(ctx)
			c.setStateLocked(types.StateFailed)

			err := fmt.Errorf("%w after %d attempts: %w", types.ErrRetriesExhausted, c.attempts-1, cause)
			c.lastErr = err
			c.log.Error(ctx, "giving up on session", err, "recovery", action.String())
			return wrap.Error(ctx, err)
		}

		metrics.SessionRecoveries.WithLabelValues(action.String()).Inc()

		delay := c.cfg.Retry.Backoff(c.attempts)
		c.log.Warn(ctx, "recovering session",
			"recovery", action.String(),
			"attempt", c.attempts,
			"delay", delay.String(),
			"cause", cause.Error(),
		)

		if action == recoverReregister {
			// nothing may go out on this connection until it is registered again
			c.setStateLocked(types.StateConnectedUnregistered)
		}

		generation := c.generation
		slept := c.backoffUnlocked(ctx, delay)

		if c.state == types.StateClosed {
			return wrap.Error(ctx, types.ErrSessionClosed)
		}
		if c.generation != generation {
			c.log.Info(ctx, "recovery superseded by a new connection", "recovery", action.String())
			return wrap.Error(ctx, fmt.Errorf("recovery superseded: %w", cause))
		}
		if slept != nil {
			return wrap.Error(ctx, fmt.Errorf("recovery interrupted: %w", slept))
		}
		if c.state == types.StateRegistered {
			// registered by someone else while waiting
			return nil
		}

		if action == recoverReregister && c.conn != nil {
			return c.registerLocked(ctx)
		}

		if err := c.dialLocked(ctx); err != nil {
			if errors.Is(err, types.ErrSessionClosed) {
				return err
			}
			cause = err
			action = recoverReconnect
			continue
		}
		return c.registerLocked(ctx)
	}
}

// backoffUnlocked releases c.mu for the duration of the wait. The wait ends early when
// ctx is done or the client is closed.
func (c *Client) backoffUnlocked(ctx context.Context, delay time.Duration) error {
	waitCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifeCtx, cancel)
	defer func() {
		stop()
		cancel()
	}()

	c.mu.Unlock()
	defer c.mu.Lock()

	return c.sleep(waitCtx, delay)
}

func (c *Client) emitLocked(ctx context.Context, event types.Event, payload any) error {
	err := c.conn.Emit(ctx, event.String(), payload)
	metrics.RecordSessionSend(event.String(), err)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrSendFailed, event, err)
	}

	c.log.Debug(ctx, "event sent", "event", event.String())
	return nil
}

func (c *Client) readyLocked() error {
	switch {
	case c.state == types.StateClosed:
		return types.ErrSessionClosed
	case c.conn == nil:
		return types.ErrNotConnected
	case c.state != types.StateRegistered:
		return types.ErrNotRegistered
	}
	return nil
}

// dropConnLocked closes the current handle. Bumping the generation detaches its listener.
func (c *Client) dropConnLocked(ctx context.Context) {
	if c.conn == nil {
		return
	}

	if err := c.conn.Close(); err != nil {
		c.log.Debug(ctx, "failed to close connection", "error", err.Error())
	}
	c.conn = nil
	c.generation++
}

func (c *Client) clearPendingLocked() {
	if c.pending == nil {
		return
	}
	if c.pending.timer != nil {
		c.pending.timer.Stop()
	}
	c.pending = nil
}

func (c *Client) expireTrip(tripID string) {
	ctx := wrap.WithLogCtx(c.lifeCtx, wrap.LogCtx{Action: types.ActionTripTimeout, TripID: tripID})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.ID != tripID {
		return
	}
	c.pending = nil
	ctx = wrap.WithUserID(ctx, c.userID)

	metrics.SessionTripTimeouts.Inc()
	c.log.Warn(ctx, "route did not arrive in time", "timeout", c.cfg.TripTimeout.String())

	if c.loading.IsLoading() {
		c.loading.StopLoading(ctx)
	}
}

func (c *Client) setStateLocked(s types.SessionState) {
	c.state = s
	metrics.SessionState.Set(float64(s))
}

func (c *Client) sessionID() string {
	return strconv.FormatUint(c.generation, 10)
}
