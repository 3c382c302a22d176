package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/configparser"
)

// Flags
var (
	modeFlag       = flag.String("mode", "", "application mode: standalone | agent")
	configPathFlag = flag.String("config-path", "", "path to the YAML config file")
	helpFlag       = flag.Bool("help", false, "print help and exit")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrHelpRequested   = errors.New("help requested")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Log      LogConfig
		HTTP     HTTPConfig
		Socket   SocketConfig
		Session  SessionConfig
		Auth     Auth
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	HTTPConfig struct {
		Port string `env:"HTTP_PORT" default:"3010"`
	}

	SocketConfig struct {
		Endpoint         string        `env:"SOCKET_ENDPOINT" default:"ws://localhost:3000"`
		Path             string        `env:"SOCKET_PATH" default:"/codigo3/socket-services"`
		Namespace        string        `env:"SOCKET_NAMESPACE" default:"/navigation"`
		HandshakeTimeout time.Duration `env:"SOCKET_HANDSHAKE_TIMEOUT" default:"10s"`
		WriteTimeout     time.Duration `env:"SOCKET_WRITE_TIMEOUT" default:"5s"`
		PingInterval     time.Duration `env:"SOCKET_PING_INTERVAL" default:"25s"`
		PongWait         time.Duration `env:"SOCKET_PONG_WAIT" default:"60s"`
	}

	SessionConfig struct {
		MaxAttempts   int           `env:"SESSION_MAX_ATTEMPTS" default:"5"`
		BackoffBase   time.Duration `env:"SESSION_BACKOFF_BASE" default:"500ms"`
		BackoffMax    time.Duration `env:"SESSION_BACKOFF_MAX" default:"30s"`
		TripTimeout   time.Duration `env:"SESSION_TRIP_TIMEOUT" default:"2m"`
		AutoReconnect bool          `env:"SESSION_AUTO_RECONNECT" default:"true"`
		// ConnectOnStart opens the session during startup. A failure is logged and the API keeps serving.
		ConnectOnStart bool `env:"SESSION_CONNECT_ON_START" default:"true"`
	}

	// Auth selects the identity source. With AccessToken set, the user id is read from its
	// user_id claim and JWTSecret also guards the control API. Otherwise UserID is used as is.
	Auth struct {
		AccessToken string `env:"AUTH_ACCESS_TOKEN"`
		JWTSecret   string `env:"AUTH_JWT_SECRET"`
		UserID      string `env:"AUTH_USER_ID"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"navigator_user"`
		Password string `env:"DATABASE_PASSWORD" default:"navigator_pass"`
		Database string `env:"DATABASE_DATABASE" default:"navigator_db"`

		MaxConns       int32         `env:"DATABASE_MAXCONNS" default:"10"`
		ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" default:"5s"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`

		LocationQueue string `env:"RABBITMQ_LOCATION_QUEUE" default:"navigator_locations"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetMaxConns() int32 {
	return c.MaxConns
}

func (c DatabaseConfig) GetConnectTimeout() time.Duration {
	return c.ConnectTimeout
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// TokenIdentity reports whether the user id comes from an access token.
func (c Auth) TokenIdentity() bool {
	return c.AccessToken != "" || c.JWTSecret != ""
}

func NewConfig() (*Config, error) {
	flag.Parse()
	if *helpFlag {
		return nil, ErrHelpRequested
	}
	return Load(*configPathFlag, *modeFlag)
}

// Load reads filepath (optional) and the environment, then applies mode.
func Load(filepath, mode string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := applyMode(cfg, mode); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyMode(cfg *Config, mode string) error {
	if mode == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(mode)
	if !cfg.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Session.MaxAttempts < 0 {
		errs = append(errs, errors.New("SESSION_MAX_ATTEMPTS must not be negative"))
	}
	if c.Session.BackoffBase < 0 || c.Session.BackoffMax < 0 {
		errs = append(errs, errors.New("session backoff must not be negative"))
	}
	if c.Auth.AccessToken != "" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required with AUTH_ACCESS_TOKEN"))
	}
	if c.Socket.Endpoint == "" {
		errs = append(errs, errors.New("SOCKET_ENDPOINT is required"))
	}

	return errors.Join(errs...)
}
