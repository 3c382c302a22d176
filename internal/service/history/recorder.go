package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/trm"
)

// Recorder persists navigation state changes. It is a state observer.
type Recorder struct {
	repo RouteRepo
	trm  trm.TxManager
	log  logger.Logger
}

func NewRecorder(repo RouteRepo, trm trm.TxManager, log logger.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		trm:  trm,
		log:  log,
	}
}

func (r *Recorder) OnLoading(ctx context.Context, loading bool) error {
	ctx = wrap.WithAction(ctx, "record_loading")

	logCtx := wrap.FromContext(ctx)
	if logCtx.UserID == "" {
		r.log.Debug(ctx, "skipping loading event without user")
		return nil
	}

	kind := types.NavLoadingStopped
	if loading {
		kind = types.NavLoadingStarted
	}

	data, err := json.Marshal(map[string]bool{"loading": loading})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	if err := r.repo.CreateEvent(ctx, logCtx.UserID, logCtx.TripID, kind, data); err != nil {
		return wrap.Error(ctx, fmt.Errorf("record %s: %w", kind, err))
	}
	return nil
}

// OnRoute stores the route as active and appends ROUTE_RECEIVED in one transaction.
func (r *Recorder) OnRoute(ctx context.Context, route models.RouteUpdate) error {
	ctx = wrap.WithAction(ctx, "record_route")

	if route.UserID == "" {
		r.log.Debug(ctx, "skipping route without user")
		return nil
	}

	err := r.trm.Do(ctx, func(ctx context.Context) error {
		if err := r.repo.SaveActiveRoute(ctx, route); err != nil {
			return err
		}
		return r.repo.CreateEvent(ctx, route.UserID, route.TripID, types.NavRouteReceived, route.Payload)
	})
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("record route: %w", err))
	}

	return nil
}

// ActiveRoute returns the last persisted route of userID.
func (r *Recorder) ActiveRoute(ctx context.Context, userID string) (models.RouteUpdate, error) {
	route, err := r.repo.GetActiveRoute(ctx, userID)
	if err != nil {
		return models.RouteUpdate{}, wrap.Error(wrap.WithAction(ctx, "get_active_route"), err)
	}
	return route, nil
}
