package config

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
)

const HelpMessage = `
navigator - keeps a navigation session alive for one user

Usage:
  navigator -mode <standalone|agent> [-config-path <file>]

Modes:
  standalone   session client and control HTTP API, in-memory state
  agent        standalone plus RabbitMQ location feed, RabbitMQ state events
               and postgres route history

Flags:
  -mode          application mode (required)
  -config-path   YAML config file; environment variables override it
  -help          print this message

Identity:
  AUTH_ACCESS_TOKEN + AUTH_JWT_SECRET   user id from the token's user_id claim
  AUTH_USER_ID                          fixed user id
  With neither, registration is refused.
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}

// PrintConfig logs the effective configuration with secrets masked.
func PrintConfig(ctx context.Context, cfg *Config, log logger.Logger) {
	ctx = wrap.WithAction(ctx, "print_config")

	log.Info(ctx, "configuration",
		"mode", string(cfg.Mode),
		"log_level", cfg.Log.Level,
		"http_port", cfg.HTTP.Port,
		"socket_endpoint", cfg.Socket.Endpoint,
		"socket_path", cfg.Socket.Path,
		"socket_namespace", cfg.Socket.Namespace,
		"session_max_attempts", cfg.Session.MaxAttempts,
		"session_backoff_base", cfg.Session.BackoffBase.String(),
		"session_backoff_max", cfg.Session.BackoffMax.String(),
		"session_trip_timeout", cfg.Session.TripTimeout.String(),
		"session_auto_reconnect", cfg.Session.AutoReconnect,
		"auth_access_token", mask(cfg.Auth.AccessToken),
		"auth_jwt_secret", mask(cfg.Auth.JWTSecret),
		"auth_user_id", cfg.Auth.UserID,
		"database_host", cfg.Database.Host,
		"database_user", cfg.Database.User,
		"database_password", mask(cfg.Database.Password),
		"rabbitmq_host", cfg.RabbitMQ.Host,
		"rabbitmq_user", cfg.RabbitMQ.User,
		"rabbitmq_password", mask(cfg.RabbitMQ.Password),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
