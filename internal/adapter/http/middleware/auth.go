package middleware

import (
	"fmt"
	"net/http"
	"strings"

	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
)

// RequireAuth lets a request through only with a valid bearer token and puts the
// caller's user id into the log context. Without a verifier every request passes.
func (h *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := wrap.WithAction(r.Context(), "authenticate")

		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := h.auth.Verify(ctx, token)
		if err != nil {
			h.log.Warn(wrap.ErrorCtx(ctx, err), "rejected control request", "error", err.Error())
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(wrap.WithUserID(r.Context(), userID)))
	})
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("authorization required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
