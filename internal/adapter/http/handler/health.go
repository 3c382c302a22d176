package handler

import (
	"net/http"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
)

// StateReporter exposes the session lifecycle state.
type StateReporter interface {
	State() types.SessionState
}

type Health struct {
	serviceName string
	mode        types.ServiceMode
	session     StateReporter
	log         logger.Logger
}

func NewHealth(serviceName string, mode types.ServiceMode, session StateReporter, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		mode:        mode,
		session:     session,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service. A failed or closed session reports 503.
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	state := a.session.State()
	status, code := "available", http.StatusOK
	if state == types.StateFailed || state == types.StateClosed {
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	response := envelope{
		"status":  status,
		"session": state.String(),
		"system_info": map[string]string{
			"service-name": a.serviceName,
			"mode":         string(a.mode),
		},
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
