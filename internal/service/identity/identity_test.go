package identity

import (
	"context"
	"testing"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenProvider_UserID(t *testing.T) {
	now := time.Now()
	valid := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "user-42",
		"exp":     now.Add(time.Hour).Unix(),
	})

	p := NewTokenProvider(testSecret, valid)
	id, err := p.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestTokenProvider_NumericUserID(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id, err := NewTokenProvider(testSecret, token).UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestTokenProvider_FailsClosed(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		token  string
		target error
	}{
		{
			name:   "empty token",
			token:  "",
			target: types.ErrNoUserID,
		},
		{
			name:   "garbage",
			token:  "not-a-jwt",
			target: types.ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
				"user_id": "user-42",
				"exp":     now.Add(time.Hour).Unix(),
			}),
			target: types.ErrInvalidToken,
		},
		{
			name: "wrong algorithm",
			token: sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{
				"user_id": "user-42",
				"exp":     now.Add(time.Hour).Unix(),
			}),
			target: types.ErrInvalidToken,
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"user_id": "user-42",
				"exp":     now.Add(-time.Minute).Unix(),
			}),
			target: types.ErrExpiredToken,
		},
		{
			name: "missing user id",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"exp": now.Add(time.Hour).Unix(),
			}),
			target: types.ErrInvalidToken,
		},
		{
			name: "fractional user id",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"user_id": 4.5,
				"exp":     now.Add(time.Hour).Unix(),
			}),
			target: types.ErrInvalidToken,
		},
		{
			name: "missing exp",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"user_id": "user-42",
			}),
			target: types.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTokenProvider(testSecret, tt.token)

			id, err := p.UserID(context.Background())
			assert.Empty(t, id)
			assert.ErrorIs(t, err, types.ErrNoUserID)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestTokenProvider_SetToken(t *testing.T) {
	p := NewTokenProvider(testSecret, "")
	_, err := p.UserID(context.Background())
	require.ErrorIs(t, err, types.ErrNoUserID)

	p.SetToken(sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "user-7",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}))

	id, err := p.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-7", id)
}

func TestStatic(t *testing.T) {
	id, err := Static("user-1").UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	_, err = Static("").UserID(context.Background())
	assert.ErrorIs(t, err, types.ErrNoUserID)
}

func TestTokenProvider_Verify(t *testing.T) {
	p := NewTokenProvider(testSecret, "")

	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "operator-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	id, err := p.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", id)

	_, err = p.UserID(context.Background())
	assert.ErrorIs(t, err, types.ErrNoUserID, "verifying does not install the token")
}
