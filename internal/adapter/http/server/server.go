package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/navigator/config"
	"github.com/Temutjin2k/navigator/internal/adapter/http/handler"
	"github.com/Temutjin2k/navigator/internal/adapter/http/middleware"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
)

const (
	serverIPAddress = "%s:%s"
	serviceName     = "navigator"
)

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	session *handler.Session
}

// SessionClient is the session surface the API drives.
type SessionClient interface {
	handler.SessionService
	handler.StateReporter
}

// Deps are the services the API is built on. Tokens, Verifier and History are optional.
type Deps struct {
	Session  SessionClient
	Store    handler.StateStore
	Tokens   handler.TokenSetter
	Verifier middleware.TokenVerifier
	History  handler.RouteHistory
}

func New(cfg config.Config, deps Deps, logger logger.Logger) (*API, error) {
	if deps.Session == nil || deps.Store == nil {
		return nil, errors.New("session and store are required")
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	routes := &handlers{
		health:  handler.NewHealth(serviceName, cfg.Mode, deps.Session, logger),
		session: handler.NewSession(deps.Session, deps.Store, deps.Tokens, deps.History, logger),
	}

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(deps.Verifier, logger),
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.HTTP.Port),
		log:    logger,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr, "mode", string(a.mode))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// Handler returns the full handler chain.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// withMiddleware applies middlewares to the mux. Metrics wraps the mux directly so it sees the matched pattern.
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(serviceName)(a.mux))))
}
