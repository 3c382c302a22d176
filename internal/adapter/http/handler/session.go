package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Temutjin2k/navigator/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/validator"
)

type (
	SessionService interface {
		Connect(ctx context.Context) error
		RegisterUser(ctx context.Context) error
		EmitLocation(ctx context.Context) error
		StartTrip(ctx context.Context, place models.Place, priority int, current models.Location) error
		EndTrip(ctx context.Context) error
		Snapshot() models.SessionSnapshot
	}

	StateStore interface {
		SetLocation(loc models.Location)
		Location(ctx context.Context) (models.Location, bool)
		IsLoading() bool
		ActiveRoute() (models.RouteUpdate, bool)
	}

	// TokenSetter replaces the access token the session registers with.
	TokenSetter interface {
		SetToken(token string)
	}

	// RouteHistory serves persisted routes when the in-memory one is gone.
	RouteHistory interface {
		ActiveRoute(ctx context.Context, userID string) (models.RouteUpdate, error)
	}
)

type Session struct {
	session SessionService
	store   StateStore
	tokens  TokenSetter
	history RouteHistory
	l       logger.Logger
}

// NewSession builds the session handler. tokens and history may be nil.
func NewSession(session SessionService, store StateStore, tokens TokenSetter, history RouteHistory, l logger.Logger) *Session {
	return &Session{
		session: session,
		store:   store,
		tokens:  tokens,
		history: history,
		l:       l,
	}
}

// GetSession godoc
// @Summary      Session status
// @Description  Returns the lifecycle state of the navigation session
// @Tags         Session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /session [get]
func (h *Session) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_session")

	if err := writeJSON(w, http.StatusOK, envelope{"session": h.status()}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// Connect godoc
// @Summary      Connect
// @Description  Opens a new connection to the navigation service, replacing the current one, and registers the user
// @Tags         Session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /session/connect [post]
func (h *Session) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "connect_session")

	if err := h.session.Connect(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to connect session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": h.status()}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "session connected")
}

// Register godoc
// @Summary      Register user
// @Description  Re-sends the registration of the current user followed by the current location
// @Tags         Session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /session/register [post]
func (h *Session) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_session_user")

	if err := h.session.RegisterUser(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": h.status()}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// UpdateLocation godoc
// @Summary      Update location
// @Description  Stores the location sample and pushes it to the navigation service. A sample that cannot be sent yet is kept and sent after the next registration.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LocationRequest  true  "Location sample"
// @Success      200      {object}  map[string]any
// @Success      202      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /session/location [put]
func (h *Session) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_location")

	var req dto.LocationRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v, "")
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	h.store.SetLocation(req.ToModel())

	err := h.session.EmitLocation(ctx)
	switch {
	case err == nil:
		h.respond(ctx, w, http.StatusOK, envelope{"status": "sent"})
	case IsOneOf(err, types.ErrNotConnected, types.ErrNotRegistered):
		h.l.Debug(ctx, "location stored until registration", "reason", err.Error())
		h.respond(ctx, w, http.StatusAccepted, envelope{"status": "stored", "reason": err.Error()})
	default:
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to send location", err)
		errorResponse(w, GetCode(err), err.Error())
	}
}

// StartTrip godoc
// @Summary      Start trip
// @Description  Requests a route to the place. The route arrives asynchronously and is served by GET /route.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        request  body      dto.StartTripRequest  true  "Destination and priority; origin defaults to the stored location"
// @Success      202      {object}  dto.TripResponse
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /trips [post]
func (h *Session) StartTrip(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_trip")

	var req dto.StartTripRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	var origin models.Location
	if req.Origin != nil {
		origin = req.Origin.ToModel()
	} else {
		loc, ok := h.store.Location(ctx)
		if !ok {
			errorResponse(w, GetCode(types.ErrNoLocation), types.ErrNoLocation.Error())
			return
		}
		origin = loc
	}

	place := req.ToPlace()
	if err := h.session.StartTrip(ctx, place, *req.Priority, origin); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start trip", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	resp := dto.TripResponse{Status: "requested", Destination: place.Name}
	if pending := h.session.Snapshot().PendingTrip; pending != nil {
		resp.TripID = pending.ID
	}

	h.respond(ctx, w, http.StatusAccepted, envelope{"trip": resp})
	h.l.Info(wrap.WithTripID(ctx, resp.TripID), "trip requested", "priority", *req.Priority)
}

// EndTrip godoc
// @Summary      End trip
// @Description  Sends endTrip whether or not a trip is active
// @Tags         Trips
// @Produce      json
// @Success      200  {object}  dto.TripResponse
// @Failure      409  {object}  map[string]string
// @Router       /trips/end [post]
func (h *Session) EndTrip(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "end_trip")

	if err := h.session.EndTrip(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to end trip", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"trip": dto.TripResponse{Status: "ended"}})
}

// GetRoute godoc
// @Summary      Active route
// @Description  Returns the last route pushed by the navigation service, verbatim
// @Tags         Trips
// @Produce      json
// @Success      200  {object}  models.RouteUpdate
// @Failure      404  {object}  map[string]string
// @Router       /route [get]
func (h *Session) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_route")

	route, ok := h.store.ActiveRoute()
	if !ok && h.history != nil {
		if userID := h.session.Snapshot().UserID; userID != "" {
			stored, err := h.history.ActiveRoute(ctx, userID)
			switch {
			case err == nil:
				route, ok = stored, true
			case !errors.Is(err, types.ErrNotFound):
				h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load stored route", err)
				internalErrorResponse(w, "failed to load route")
				return
			}
		}
	}

	if !ok {
		errorResponse(w, http.StatusNotFound, "no active route")
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"active_route": route, "loading": h.store.IsLoading()})
}

// SetToken godoc
// @Summary      Set access token
// @Description  Replaces the access token whose user_id claim identifies the user. Takes effect on the next registration.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SetTokenRequest  true  "Access token"
// @Success      200      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /session/token [put]
func (h *Session) SetToken(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_token")

	if h.tokens == nil {
		errorResponse(w, http.StatusNotFound, "token identity is not enabled")
		return
	}

	var req dto.SetTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	h.tokens.SetToken(req.AccessToken)
	h.respond(ctx, w, http.StatusOK, envelope{"status": "updated"})
}

func (h *Session) status() dto.SessionResponse {
	return dto.SessionResponse{
		SessionSnapshot: h.session.Snapshot(),
		Loading:         h.store.IsLoading(),
	}
}

func (h *Session) respond(ctx context.Context, w http.ResponseWriter, status int, data envelope) {
	if err := writeJSON(w, status, data, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
