package wsconn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var ErrInvalidEndpoint = errors.New("invalid websocket endpoint")

// Config describes where and how to open a connection.
type Config struct {
	Endpoint  string // ws://host:port, http(s) schemes are mapped to ws(s)
	Path      string // upgrade path on the endpoint
	Namespace string // logical channel carried in every envelope

	Header http.Header

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration // 0 disables keepalive pings
	PongWait         time.Duration // 0 disables the read deadline
}

// Dialer opens websocket-only connections. There is no long-polling fallback.
type Dialer struct {
	cfg    Config
	dialer *websocket.Dialer
}

func NewDialer(cfg Config) *Dialer {
	return &Dialer{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// URL returns the full upgrade URL built from endpoint and path.
func (d *Dialer) URL() (string, error) {
	u, err := url.Parse(d.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	if d.cfg.Path != "" {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(d.cfg.Path, "/")
	}

	return u.String(), nil
}

// Dial opens one connection. It does not retry.
func (d *Dialer) Dial(ctx context.Context) (*Conn, error) {
	target, err := d.URL()
	if err != nil {
		return nil, err
	}

	ws, resp, err := d.dialer.DialContext(ctx, target, d.cfg.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", target, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	return newConn(ws, d.cfg), nil
}
