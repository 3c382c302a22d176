package ws

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/internal/service/identity"
	"github.com/Temutjin2k/navigator/internal/service/session"
	"github.com/Temutjin2k/navigator/internal/service/state"
	"github.com/Temutjin2k/navigator/pkg/logger"
	"github.com/Temutjin2k/navigator/pkg/wsconn"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	navPath      = "/codigo3/socket-services"
	navNamespace = "/navigation"
)

type frame struct {
	Namespace string          `json:"nsp"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
}

// navServer accepts one connection and forwards every frame it reads to frames.
func navServer(t *testing.T) (*httptest.Server, <-chan frame, <-chan *websocket.Conn) {
	t.Helper()

	frames := make(chan frame, 16)
	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc(navPath, func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		conns <- c

		for {
			var f frame
			if err := c.ReadJSON(&f); err != nil {
				return
			}
			frames <- f
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, frames, conns
}

func next(t *testing.T, frames <-chan frame) frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return frame{}
	}
}

func TestNavigationDialer_DialFailureIsNilConn(t *testing.T) {
	d := NewNavigationDialer(wsconn.Config{Endpoint: "ftp://nav.example", Path: navPath})

	conn, err := d.Dial(context.Background())
	require.ErrorIs(t, err, wsconn.ErrInvalidEndpoint)
	assert.Nil(t, conn)
}

func TestSessionOverWebsocket(t *testing.T) {
	srv, frames, conns := navServer(t)

	log := logger.New(io.Discard, "test", logger.LevelDebug)
	store := state.NewStore(log)
	store.SetLocation(models.Location{Latitude: 43.238, Longitude: 76.889})

	dialer := NewNavigationDialer(wsconn.Config{
		Endpoint:         srv.URL,
		Path:             navPath,
		Namespace:        navNamespace,
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     2 * time.Second,
	})

	client := session.New(dialer, identity.Static("user-42"), store, store, store, session.Config{
		Retry: session.DefaultRetryPolicy(),
	}, log)
	defer client.Close(context.Background())

	require.NoError(t, client.Connect(context.Background()))
	assert.Equal(t, types.StateRegistered, client.State())

	reg := next(t, frames)
	assert.Equal(t, navNamespace, reg.Namespace)
	assert.Equal(t, types.EventRegisterUser.String(), reg.Event)
	assert.JSONEq(t, `{"userId":"user-42"}`, string(reg.Data))

	loc := next(t, frames)
	assert.Equal(t, types.EventUpdateLocation.String(), loc.Event)
	assert.JSONEq(t, `{"latitude":43.238,"longitude":76.889}`, string(loc.Data))

	place := models.Place{Name: "Airport", Center: []float64{77.04, 43.35}}
	require.NoError(t, client.StartTrip(context.Background(), place, 1, models.Location{Latitude: 43.238, Longitude: 76.889}))
	assert.True(t, store.IsLoading())

	trip := next(t, frames)
	assert.Equal(t, types.EventStartTrip.String(), trip.Event)
	assert.JSONEq(t, `{
		"origin":{"latitude":43.238,"longitude":76.889},
		"destination":{"latitude":43.35,"longitude":77.04},
		"priority":1
	}`, string(trip.Data))

	server := <-conns
	require.NoError(t, server.WriteJSON(frame{
		Namespace: navNamespace,
		Event:     types.EventTripPath.String(),
		Data:      json.RawMessage(`{"points":[[76.889,43.238],[77.04,43.35]]}`),
	}))

	require.Eventually(t, func() bool {
		_, ok := store.ActiveRoute()
		return ok && !store.IsLoading()
	}, 2*time.Second, 10*time.Millisecond)

	route, _ := store.ActiveRoute()
	assert.JSONEq(t, `{"points":[[76.889,43.238],[77.04,43.35]]}`, string(route.Payload))
	assert.Equal(t, "user-42", route.UserID)
	assert.NotEmpty(t, route.TripID)
}
