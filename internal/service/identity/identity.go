package identity

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider reads the user id from the user_id claim of an HS256 access token.
// The token is checked on every call, so an expired token stops registration.
type TokenProvider struct {
	secret []byte

	mu    sync.RWMutex
	token string

	now func() time.Time
}

func NewTokenProvider(secret, token string) *TokenProvider {
	return &TokenProvider{
		secret: []byte(secret),
		token:  token,
		now:    time.Now,
	}
}

// SetToken replaces the access token, e.g. after a refresh.
func (p *TokenProvider) SetToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
}

func (p *TokenProvider) UserID(ctx context.Context) (string, error) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()

	return p.Verify(ctx, token)
}

// Verify checks token against the provider's secret and returns its user id.
// Every failure wraps types.ErrNoUserID.
func (p *TokenProvider) Verify(ctx context.Context, token string) (string, error) {
	ctx = wrap.WithAction(ctx, "resolve_user_id")

	if token == "" {
		return "", wrap.Error(ctx, types.ErrNoUserID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, types.ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrNoUserID, types.ErrInvalidToken))
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrNoUserID, types.ErrInvalidToken))
	}

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w: missing 'exp'", types.ErrNoUserID, types.ErrInvalidToken))
	}
	if p.now().After(time.Unix(int64(expFloat), 0)) {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrNoUserID, types.ErrExpiredToken))
	}

	userID := claimID(mc["user_id"])
	if userID == "" {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w: missing 'user_id'", types.ErrNoUserID, types.ErrInvalidToken))
	}

	return userID, nil
}

// claimID accepts string ids and integral numeric ids.
func claimID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id != math.Trunc(id) || math.Abs(id) > 1<<53 {
			return ""
		}
		return strconv.FormatInt(int64(id), 10)
	}
	return ""
}

// Static always reports the configured id. An empty id yields ErrNoUserID.
type Static string

func (s Static) UserID(ctx context.Context) (string, error) {
	if s == "" {
		return "", wrap.Error(ctx, types.ErrNoUserID)
	}
	return string(s), nil
}
