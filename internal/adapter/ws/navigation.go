package ws

import (
	"context"

	"github.com/Temutjin2k/navigator/internal/service/session"
	"github.com/Temutjin2k/navigator/pkg/wsconn"
)

// NavigationDialer opens websocket connections to the navigation service.
type NavigationDialer struct {
	dialer *wsconn.Dialer
}

func NewNavigationDialer(cfg wsconn.Config) *NavigationDialer {
	return &NavigationDialer{dialer: wsconn.NewDialer(cfg)}
}

func (d *NavigationDialer) Dial(ctx context.Context) (session.Conn, error) {
	conn, err := d.dialer.Dial(ctx)
	if err != nil {
		// a nil *wsconn.Conn must not leak as a non-nil interface
		return nil, err
	}
	return conn, nil
}

// URL is the upgrade URL connections are opened against.
func (d *NavigationDialer) URL() (string, error) {
	return d.dialer.URL()
}
