package feed

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
)

type (
	LocationStore interface {
		SetLocation(loc models.Location)
	}

	// Session is the part of the session client the feed drives.
	Session interface {
		EmitLocation(ctx context.Context) error
		Snapshot() models.SessionSnapshot
	}
)

// Feed applies location samples from an external source: the sample becomes the current
// location and is pushed to the navigation service.
type Feed struct {
	store   LocationStore
	session Session
	log     logger.Logger
}

func New(store LocationStore, session Session, log logger.Logger) *Feed {
	return &Feed{
		store:   store,
		session: session,
		log:     log,
	}
}

// Handle stores msg and emits it. Samples of another user are ignored. The sample is kept
// even when the emit fails, so it goes out with the next registration.
func (f *Feed) Handle(ctx context.Context, msg models.LocationUpdateMessage) error {
	ctx = wrap.WithAction(ctx, "apply_location")

	if err := msg.Location.Err(); err != nil {
		return wrap.Error(ctx, fmt.Errorf("location of %q: %w", msg.UserID, err))
	}

	if current := f.session.Snapshot().UserID; msg.UserID != "" && current != "" && msg.UserID != current {
		f.log.Debug(ctx, "ignoring location of another user", "sample_user_id", msg.UserID)
		return nil
	}

	f.store.SetLocation(msg.Location)

	if err := f.session.EmitLocation(ctx); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}
