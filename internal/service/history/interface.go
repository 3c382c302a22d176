package history

import (
	"context"
	"encoding/json"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
)

type RouteRepo interface {
	SaveActiveRoute(ctx context.Context, route models.RouteUpdate) error
	GetActiveRoute(ctx context.Context, userID string) (models.RouteUpdate, error)
	CreateEvent(ctx context.Context, userID, tripID string, eventType types.NavigationEvent, eventData json.RawMessage) error
}
