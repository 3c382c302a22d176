package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrConnClosed = errors.New("connection closed")

// Message is the envelope of every frame on the wire.
type Message struct {
	Namespace string          `json:"nsp,omitempty"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Conn is a single websocket connection speaking named events.
// Emit may be called concurrently with Receive; Receive must have a single caller.
type Conn struct {
	conn      *websocket.Conn
	namespace string

	writeTimeout time.Duration
	pongWait     time.Duration

	doneCtx context.Context
	cancel  context.CancelFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newConn(ws *websocket.Conn, cfg Config) *Conn {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Conn{
		conn:         ws,
		namespace:    cfg.Namespace,
		writeTimeout: cfg.WriteTimeout,
		pongWait:     cfg.PongWait,
		doneCtx:      ctx,
		cancel:       cancel,
	}

	if c.pongWait > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(c.pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(c.pongWait))
		})
	}

	if cfg.PingInterval > 0 {
		go c.pingLoop(cfg.PingInterval)
	}

	return c
}

// Health pings the peer.
func (c *Conn) Health() error {
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(3*time.Second),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// Emit sends one named event. A nil data is sent without a data field.
func (c *Conn) Emit(ctx context.Context, event string, data any) error {
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}

	msg := Message{
		Namespace: c.namespace,
		Event:     event,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", event, err)
		}
		msg.Data = raw
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(c.writeDeadline(ctx)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s: %w", event, err)
	}

	return nil
}

// Receive blocks until the next event of this namespace arrives.
// Cancelling ctx unblocks it with ctx.Err().
func (c *Conn) Receive(ctx context.Context) (string, json.RawMessage, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			select {
			case <-c.doneCtx.Done():
				return "", nil, ErrConnClosed
			default:
			}
			return "", nil, fmt.Errorf("read failed: %w", err)
		}

		if c.pongWait > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		}

		if c.namespace != "" && msg.Namespace != c.namespace {
			continue
		}

		return msg.Event, msg.Data, nil
	}
}

// Close is idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.closeErr = c.conn.Close()
	})

	return c.closeErr
}

func (c *Conn) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.doneCtx.Done():
			return
		case <-ticker.C:
			if err := c.Health(); err != nil {
				return
			}
		}
	}
}

func (c *Conn) writeDeadline(ctx context.Context) time.Time {
	var deadline time.Time
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline
}
