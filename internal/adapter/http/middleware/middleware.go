package middleware

import (
	"context"

	"github.com/Temutjin2k/navigator/pkg/logger"
)

type (
	// TokenVerifier resolves the user id of a bearer token.
	TokenVerifier interface {
		Verify(ctx context.Context, token string) (string, error)
	}

	Middleware struct {
		auth TokenVerifier
		log  logger.Logger
	}
)

// NewMiddleware builds the middleware set. A nil auth disables token checks.
func NewMiddleware(auth TokenVerifier, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
