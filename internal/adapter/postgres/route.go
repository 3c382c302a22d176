package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/metrics"
	"github.com/jackc/pgx/v5"
)

const serviceName = "navigator"

type RouteRepo struct {
	db Querier
}

// NewRouteRepo builds the repo over db, usually a *pgxpool.Pool. Calls made inside
// trm.Do run on that transaction instead.
func NewRouteRepo(db Querier) *RouteRepo {
	return &RouteRepo{db: db}
}

// SaveActiveRoute replaces the active route of route.UserID.
func (r *RouteRepo) SaveActiveRoute(ctx context.Context, route models.RouteUpdate) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(serviceName, "save_active_route", err, time.Since(start)) }()

	q := TxorDB(ctx, r.db)

	query := `INSERT INTO active_routes (user_id, trip_id, route, received_at)
			  VALUES ($1, NULLIF($2::text, '')::uuid, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE
			  SET trip_id = EXCLUDED.trip_id,
			      route = EXCLUDED.route,
			      received_at = EXCLUDED.received_at,
			      updated_at = now();`

	if _, err = q.Exec(ctx, query, route.UserID, route.TripID, []byte(route.Payload), route.ReceivedAt); err != nil {
		return fmt.Errorf("save active route: %w", err)
	}
	return nil
}

// GetActiveRoute returns the stored route of userID or types.ErrNotFound.
func (r *RouteRepo) GetActiveRoute(ctx context.Context, userID string) (route models.RouteUpdate, err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(serviceName, "get_active_route", err, time.Since(start)) }()

	q := TxorDB(ctx, r.db)

	query := `SELECT user_id, COALESCE(trip_id::text, ''), route, received_at
			  FROM active_routes
			  WHERE user_id = $1;`

	var payload []byte
	err = q.QueryRow(ctx, query, userID).Scan(&route.UserID, &route.TripID, &payload, &route.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RouteUpdate{}, types.ErrNotFound
		}
		return models.RouteUpdate{}, fmt.Errorf("get active route: %w", err)
	}
	route.Payload = json.RawMessage(payload)

	return route, nil
}

// CreateEvent appends a navigation event.
func (r *RouteRepo) CreateEvent(ctx context.Context, userID, tripID string, eventType types.NavigationEvent, eventData json.RawMessage) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(serviceName, "create_event", err, time.Since(start)) }()

	q := TxorDB(ctx, r.db)

	query := `INSERT INTO navigation_events (user_id, trip_id, event_type, event_data)
			  VALUES ($1, NULLIF($2::text, '')::uuid, $3, $4);`

	if _, err = q.Exec(ctx, query, userID, tripID, eventType.String(), []byte(eventData)); err != nil {
		return fmt.Errorf("create navigation event: %w", err)
	}
	return nil
}
