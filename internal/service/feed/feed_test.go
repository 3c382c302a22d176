package feed

import (
	"context"
	"io"
	"testing"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	locs []models.Location
}

func (s *fakeStore) SetLocation(loc models.Location) {
	s.locs = append(s.locs, loc)
}

type fakeSession struct {
	userID string
	err    error
	emits  int
}

func (s *fakeSession) EmitLocation(context.Context) error {
	s.emits++
	return s.err
}

func (s *fakeSession) Snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{UserID: s.userID}
}

func newTestFeed(store *fakeStore, sess *fakeSession) *Feed {
	return New(store, sess, logger.New(io.Discard, "test", logger.LevelDebug))
}

func TestFeed_Handle(t *testing.T) {
	store := &fakeStore{}
	sess := &fakeSession{userID: "user-42"}
	loc := models.Location{Latitude: 43.2, Longitude: 76.9}

	require.NoError(t, newTestFeed(store, sess).Handle(context.Background(), models.LocationUpdateMessage{UserID: "user-42", Location: loc}))

	assert.Equal(t, []models.Location{loc}, store.locs)
	assert.Equal(t, 1, sess.emits)
}

func TestFeed_IgnoresOtherUsers(t *testing.T) {
	store := &fakeStore{}
	sess := &fakeSession{userID: "user-42"}

	err := newTestFeed(store, sess).Handle(context.Background(), models.LocationUpdateMessage{
		UserID:   "user-7",
		Location: models.Location{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)

	assert.Empty(t, store.locs)
	assert.Zero(t, sess.emits)
}

func TestFeed_RejectsInvalidSample(t *testing.T) {
	store := &fakeStore{}
	sess := &fakeSession{}

	err := newTestFeed(store, sess).Handle(context.Background(), models.LocationUpdateMessage{
		Location: models.Location{Latitude: 95, Longitude: 2},
	})
	assert.ErrorIs(t, err, types.ErrInvalidCoordinate)
	assert.Empty(t, store.locs)
}

func TestFeed_KeepsSampleWhenNotRegistered(t *testing.T) {
	store := &fakeStore{}
	sess := &fakeSession{err: types.ErrNotRegistered}

	err := newTestFeed(store, sess).Handle(context.Background(), models.LocationUpdateMessage{
		Location: models.Location{Latitude: 1, Longitude: 2},
	})
	assert.ErrorIs(t, err, types.ErrNotRegistered)
	assert.Len(t, store.locs, 1)
}
