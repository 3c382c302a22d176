package microservices

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Temutjin2k/navigator/config"
	"github.com/Temutjin2k/navigator/internal/adapter/http/handler"
	"github.com/Temutjin2k/navigator/internal/adapter/http/middleware"
	httpserver "github.com/Temutjin2k/navigator/internal/adapter/http/server"
	repo "github.com/Temutjin2k/navigator/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/navigator/internal/adapter/rabbit"
	wsadapter "github.com/Temutjin2k/navigator/internal/adapter/ws"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/internal/service/feed"
	"github.com/Temutjin2k/navigator/internal/service/history"
	"github.com/Temutjin2k/navigator/internal/service/identity"
	"github.com/Temutjin2k/navigator/internal/service/session"
	"github.com/Temutjin2k/navigator/internal/service/state"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	postgresclient "github.com/Temutjin2k/navigator/pkg/postgres"
	rabbitclient "github.com/Temutjin2k/navigator/pkg/rabbit"
	"github.com/Temutjin2k/navigator/pkg/trm"
	"github.com/Temutjin2k/navigator/pkg/wsconn"
)

type NavigatorService struct {
	client     *session.Client
	store      *state.Store
	httpServer *httpserver.API

	// agent mode only
	postgresDB *postgresclient.PostgreDB
	rabbit     *rabbitclient.RabbitMQ
	consumer   *rabbitadapter.LocationConsumer
	feed       *feed.Feed

	wg  sync.WaitGroup
	cfg config.Config
	log logger.Logger
}

func NewNavigator(ctx context.Context, cfg config.Config, log logger.Logger) (*NavigatorService, error) {
	s := &NavigatorService{
		cfg: cfg,
		log: log,
	}

	var (
		users    session.UserProvider
		tokens   handler.TokenSetter
		verifier middleware.TokenVerifier
		routes   handler.RouteHistory
	)

	if cfg.Auth.TokenIdentity() {
		tp := identity.NewTokenProvider(cfg.Auth.JWTSecret, cfg.Auth.AccessToken)
		users, tokens, verifier = tp, tp, tp
	} else {
		if cfg.Auth.UserID == "" {
			log.Warn(ctx, "no identity configured, registration will be refused")
		}
		users = identity.Static(cfg.Auth.UserID)
	}

	var observers []state.Observer
	if cfg.Mode == types.AgentMode {
		db, err := postgresclient.New(ctx, cfg.Database)
		if err != nil {
			log.Error(ctx, "failed to setup database", err)
			return nil, err
		}
		s.postgresDB = db

		rabbit, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "failed to setup rabbitmq", err)
			db.Close()
			return nil, err
		}
		s.rabbit = rabbit

		recorder := history.NewRecorder(repo.NewRouteRepo(db.Pool), trm.New(db.Pool), log)
		routes = recorder

		observers = append(observers,
			recorder,
			rabbitadapter.NewStatePublisher(rabbit, log),
		)
		s.consumer = rabbitadapter.NewLocationConsumer(rabbit, cfg.RabbitMQ.LocationQueue, log)
	}

	s.store = state.NewStore(log, observers...)

	dialer := wsadapter.NewNavigationDialer(wsconn.Config{
		Endpoint:         cfg.Socket.Endpoint,
		Path:             cfg.Socket.Path,
		Namespace:        cfg.Socket.Namespace,
		HandshakeTimeout: cfg.Socket.HandshakeTimeout,
		WriteTimeout:     cfg.Socket.WriteTimeout,
		PingInterval:     cfg.Socket.PingInterval,
		PongWait:         cfg.Socket.PongWait,
	})
	target, err := dialer.URL()
	if err != nil {
		log.Error(ctx, "invalid navigation endpoint", err)
		s.closeInfra(ctx)
		return nil, err
	}
	log.Info(ctx, "navigation endpoint", "url", target)

	s.client = session.New(dialer, users, s.store, s.store, s.store, session.Config{
		Retry: session.RetryPolicy{
			MaxAttempts: cfg.Session.MaxAttempts,
			BaseDelay:   cfg.Session.BackoffBase,
			MaxDelay:    cfg.Session.BackoffMax,
		},
		TripTimeout:   cfg.Session.TripTimeout,
		AutoReconnect: cfg.Session.AutoReconnect,
	}, log)

	if s.consumer != nil {
		s.feed = feed.New(s.store, s.client, log)
	}

	server, err := httpserver.New(cfg, httpserver.Deps{
		Session:  s.client,
		Store:    s.store,
		Tokens:   tokens,
		Verifier: verifier,
		History:  routes,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		s.closeInfra(ctx)
		return nil, err
	}
	s.httpServer = server

	return s, nil
}

func (s *NavigatorService) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.close(ctx)
		s.log.Info(ctx, "navigator service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(runCtx, errCh)

	if s.consumer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.consumer.Consume(runCtx, s.feed.Handle); err != nil {
				s.log.Error(wrap.ErrorCtx(runCtx, err), "location consumer stopped", err)
			}
		}()
	}

	if s.cfg.Session.ConnectOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.client.Connect(runCtx); err != nil {
				s.log.Error(wrap.ErrorCtx(runCtx, err), "initial connect failed", err)
			}
		}()
	}

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	s.log.Info(ctx, "navigator service started", "mode", string(s.cfg.Mode))

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *NavigatorService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
	}

	if err := s.client.Close(ctx); err != nil {
		s.log.Warn(ctx, "failed to close session", "error", err.Error())
	}

	s.wg.Wait()
	s.closeInfra(ctx)
}

func (s *NavigatorService) closeInfra(ctx context.Context) {
	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.postgresDB != nil && s.postgresDB.Pool != nil {
		s.postgresDB.Close()
	}
}
