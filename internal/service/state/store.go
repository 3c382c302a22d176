package state

import (
	"bytes"
	"context"
	"sync"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/pkg/logger"
)

// Observer is notified about loading and route changes after they are applied.
type Observer interface {
	OnLoading(ctx context.Context, loading bool) error
	OnRoute(ctx context.Context, route models.RouteUpdate) error
}

// Store is the state container the session client reads from and writes to:
// latest location, loading flag and active route.
type Store struct {
	mu       sync.RWMutex
	location *models.Location
	loading  bool
	route    *models.RouteUpdate

	observers []Observer
	log       logger.Logger
}

func NewStore(log logger.Logger, observers ...Observer) *Store {
	return &Store{
		observers: observers,
		log:       log,
	}
}

// SetLocation replaces the latest location sample.
func (s *Store) SetLocation(loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
}

func (s *Store) Location(context.Context) (models.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.location == nil {
		return models.Location{}, false
	}
	return *s.location, true
}

func (s *Store) StartLoading(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	s.notifyLoading(ctx, true)
}

func (s *Store) StopLoading(ctx context.Context) {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	s.notifyLoading(ctx, false)
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) SetActiveRoute(ctx context.Context, route models.RouteUpdate) {
	route.Payload = bytes.Clone(route.Payload)

	s.mu.Lock()
	s.route = &route
	s.mu.Unlock()

	for _, o := range s.observers {
		if err := o.OnRoute(ctx, route); err != nil {
			s.log.Error(ctx, "route observer failed", err)
		}
	}
}

// ActiveRoute returns the most recent route, if any.
func (s *Store) ActiveRoute() (models.RouteUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.route == nil {
		return models.RouteUpdate{}, false
	}
	r := *s.route
	r.Payload = bytes.Clone(r.Payload)
	return r, true
}

func (s *Store) notifyLoading(ctx context.Context, loading bool) {
	for _, o := range s.observers {
		if err := o.OnLoading(ctx, loading); err != nil {
			s.log.Error(ctx, "loading observer failed", err)
		}
	}
}
