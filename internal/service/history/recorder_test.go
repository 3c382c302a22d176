package history

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	userID, tripID string
	kind           types.NavigationEvent
	data           string
}

// fakeRepo buffers writes made inside a transaction and applies them on commit.
type fakeRepo struct {
	routes map[string]models.RouteUpdate
	events []event

	failEvent error
	pending   []func()
	inTx      bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{routes: make(map[string]models.RouteUpdate)}
}

func (f *fakeRepo) apply(fn func()) {
	if f.inTx {
		f.pending = append(f.pending, fn)
		return
	}
	fn()
}

func (f *fakeRepo) SaveActiveRoute(_ context.Context, route models.RouteUpdate) error {
	f.apply(func() { f.routes[route.UserID] = route })
	return nil
}

func (f *fakeRepo) GetActiveRoute(_ context.Context, userID string) (models.RouteUpdate, error) {
	route, ok := f.routes[userID]
	if !ok {
		return models.RouteUpdate{}, types.ErrNotFound
	}
	return route, nil
}

func (f *fakeRepo) CreateEvent(_ context.Context, userID, tripID string, kind types.NavigationEvent, data json.RawMessage) error {
	if f.failEvent != nil {
		return f.failEvent
	}
	f.apply(func() { f.events = append(f.events, event{userID, tripID, kind, string(data)}) })
	return nil
}

type fakeTx struct{ repo *fakeRepo }

func (t fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.repo.inTx = true
	err := fn(ctx)
	t.repo.inTx = false

	if err == nil {
		for _, p := range t.repo.pending {
			p()
		}
	}
	t.repo.pending = nil
	return err
}

func newTestRecorder(repo *fakeRepo) *Recorder {
	return NewRecorder(repo, fakeTx{repo}, logger.New(io.Discard, "test", logger.LevelDebug))
}

func TestRecorder_OnRoute(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder(repo)

	route := models.RouteUpdate{Payload: json.RawMessage(`{"p":1}`), UserID: "user-42", TripID: "trip-1"}
	require.NoError(t, r.OnRoute(context.Background(), route))

	got, err := r.ActiveRoute(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "trip-1", got.TripID)

	require.Len(t, repo.events, 1)
	assert.Equal(t, event{"user-42", "trip-1", types.NavRouteReceived, `{"p":1}`}, repo.events[0])
}

func TestRecorder_OnRouteRollsBack(t *testing.T) {
	repo := newFakeRepo()
	repo.failEvent = errors.New("insert failed")
	r := newTestRecorder(repo)

	err := r.OnRoute(context.Background(), models.RouteUpdate{Payload: json.RawMessage(`{}`), UserID: "user-42"})
	require.Error(t, err)

	_, err = r.ActiveRoute(context.Background(), "user-42")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRecorder_OnLoading(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder(repo)

	require.NoError(t, r.OnLoading(context.Background(), true))
	assert.Empty(t, repo.events, "no user in context")

	ctx := wrap.WithLogCtx(context.Background(), wrap.LogCtx{UserID: "user-42", TripID: "trip-1"})
	require.NoError(t, r.OnLoading(ctx, true))
	require.NoError(t, r.OnLoading(ctx, false))

	require.Len(t, repo.events, 2)
	assert.Equal(t, types.NavLoadingStarted, repo.events[0].kind)
	assert.JSONEq(t, `{"loading":true}`, repo.events[0].data)
	assert.Equal(t, types.NavLoadingStopped, repo.events[1].kind)
	assert.Equal(t, "trip-1", repo.events[1].tripID)
}
