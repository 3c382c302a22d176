package wsconn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/codigo3/socket-services"

// newServer starts a websocket server on testPath and hands every accepted connection to fn.
func newServer(t *testing.T, fn func(ws *websocket.Conn)) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc(testPath, func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		fn(ws)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		Endpoint:         srv.URL,
		Path:             testPath,
		Namespace:        "/navigation",
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     2 * time.Second,
	}
}

func TestDialer_URL(t *testing.T) {
	cases := []struct {
		endpoint string
		path     string
		want     string
	}{
		{"ws://nav.example:3000", "/codigo3/socket-services", "ws://nav.example:3000/codigo3/socket-services"},
		{"https://nav.example/", "codigo3/socket-services", "wss://nav.example/codigo3/socket-services"},
		{"http://nav.example/base", "/sock", "ws://nav.example/base/sock"},
	}

	for _, tc := range cases {
		got, err := NewDialer(Config{Endpoint: tc.endpoint, Path: tc.path}).URL()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestDialer_URL_Invalid(t *testing.T) {
	_, err := NewDialer(Config{Endpoint: "ftp://nav.example"}).URL()
	assert.ErrorIs(t, err, ErrInvalidEndpoint)

	_, err = NewDialer(Config{Endpoint: "ws://"}).URL()
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestConn_EmitWritesEnvelope(t *testing.T) {
	got := make(chan Message, 1)
	srv := newServer(t, func(ws *websocket.Conn) {
		var msg Message
		if err := ws.ReadJSON(&msg); err == nil {
			got <- msg
		}
	})

	conn, err := NewDialer(testConfig(srv)).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Emit(context.Background(), "registerUser", map[string]string{"userId": "42"}))

	select {
	case msg := <-got:
		assert.Equal(t, "/navigation", msg.Namespace)
		assert.Equal(t, "registerUser", msg.Event)
		assert.JSONEq(t, `{"userId":"42"}`, string(msg.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the message")
	}
}

func TestConn_ReceiveSkipsForeignNamespace(t *testing.T) {
	srv := newServer(t, func(ws *websocket.Conn) {
		_ = ws.WriteJSON(Message{Namespace: "/chat", Event: "tripPath", Data: []byte(`{"ignored":true}`)})
		_ = ws.WriteJSON(Message{Namespace: "/navigation", Event: "tripPath", Data: []byte(`{"points":[[1,2]]}`)})
		// keep the connection open until the client is done
		_, _, _ = ws.ReadMessage()
	})

	conn, err := NewDialer(testConfig(srv)).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	event, data, err := conn.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tripPath", event)
	assert.JSONEq(t, `{"points":[[1,2]]}`, string(data))
}

func TestConn_ReceiveHonorsContext(t *testing.T) {
	srv := newServer(t, func(ws *websocket.Conn) {
		_, _, _ = ws.ReadMessage()
	})

	conn, err := NewDialer(testConfig(srv)).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err = conn.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConn_CloseUnblocksReceiveAndEmit(t *testing.T) {
	srv := newServer(t, func(ws *websocket.Conn) {
		_, _, _ = ws.ReadMessage()
	})

	conn, err := NewDialer(testConfig(srv)).Dial(context.Background())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, _, err := conn.Receive(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, conn.Close())
	assert.NoError(t, conn.Close(), "close must be idempotent")

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not return after close")
	}

	assert.ErrorIs(t, conn.Emit(context.Background(), "endTrip", struct{}{}), ErrConnClosed)
	assert.ErrorIs(t, conn.Health(), ErrConnClosed)
}

func TestDialer_DialFailsOnWrongPath(t *testing.T) {
	srv := newServer(t, func(ws *websocket.Conn) {})

	cfg := testConfig(srv)
	cfg.Path = "/socket.io"
	_, err := NewDialer(cfg).Dial(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 404"), err.Error())
}
