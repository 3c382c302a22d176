package session

import (
	"context"
	"encoding/json"

	"github.com/Temutjin2k/navigator/internal/domain/models"
)

type (
	// Conn is one open connection to the navigation service.
	Conn interface {
		Emit(ctx context.Context, event string, data any) error
		Receive(ctx context.Context) (event string, data json.RawMessage, err error)
		Close() error
	}

	// Dialer opens a new Conn. It must not retry on its own.
	Dialer interface {
		Dial(ctx context.Context) (Conn, error)
	}

	// UserProvider supplies the identity to register with.
	// It returns types.ErrNoUserID (or a wrapped identity error) when there is none.
	UserProvider interface {
		UserID(ctx context.Context) (string, error)
	}

	// LocationProvider supplies the latest known location.
	LocationProvider interface {
		Location(ctx context.Context) (models.Location, bool)
	}

	// LoadingSink is the loading indicator of the hosting state container.
	LoadingSink interface {
		StartLoading(ctx context.Context)
		StopLoading(ctx context.Context)
		IsLoading() bool
	}

	// RouteSink receives server-pushed routes.
	RouteSink interface {
		SetActiveRoute(ctx context.Context, route models.RouteUpdate)
	}
)

// DialFunc adapts a function to Dialer.
type DialFunc func(ctx context.Context) (Conn, error)

func (f DialFunc) Dial(ctx context.Context) (Conn, error) {
	return f(ctx)
}
