package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "standalone")
	require.NoError(t, err)

	assert.Equal(t, types.StandaloneMode, cfg.Mode)
	assert.Equal(t, "/codigo3/socket-services", cfg.Socket.Path)
	assert.Equal(t, "/navigation", cfg.Socket.Namespace)
	assert.Equal(t, 5, cfg.Session.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.BackoffBase)
	assert.True(t, cfg.Session.AutoReconnect)
	assert.Empty(t, cfg.Auth.UserID, "no default identity")
	assert.False(t, cfg.Auth.TokenIdentity())
}

func TestLoad_YamlAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
socket:
  endpoint: wss://nav.example
session:
  max_attempts: 3
  trip_timeout: 45s
auth:
  user_id: user-1
`), 0o600))

	// the file is flattened into the process environment; restore it afterwards
	for _, key := range []string{"SOCKET_ENDPOINT", "SESSION_TRIP_TIMEOUT", "AUTH_USER_ID"} {
		t.Setenv(key, "")
	}
	t.Setenv("SESSION_MAX_ATTEMPTS", "7")

	cfg, err := Load(path, "agent")
	require.NoError(t, err)

	assert.Equal(t, types.AgentMode, cfg.Mode)
	assert.Equal(t, "wss://nav.example", cfg.Socket.Endpoint)
	assert.Equal(t, 7, cfg.Session.MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.Session.TripTimeout)
	assert.Equal(t, "user-1", cfg.Auth.UserID)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("", "")
	assert.ErrorIs(t, err, ErrModeNotProvided)

	_, err = Load("", "ride")
	assert.ErrorIs(t, err, ErrInvalidMode)

	t.Setenv("AUTH_ACCESS_TOKEN", "token")
	_, err = Load("", "standalone")
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("secret"))
}
