package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	PortEnv                 = "PORT"
	ReadTimeoutEnv          = "READ_TIMEOUT"
	WriteTimeoutEnv         = "WRITE_TIMEOUT"
	IdleTimeoutEnv          = "IDLE_TIMEOUT"
	ShutdownTimeoutEnv      = "SHUTDOWN_TIMEOUT"
	OrderStatusNormalizeEnv = "ORDER_STATUS_NORMALIZE"
	AMQPURLEnv              = "AMQP_URL"
	AMQPExchangeEnv         = "AMQP_EXCHANGE"
	PolicyFileEnv           = "POLICY_FILE"
	MysqlUserEnv            = "MYSQL_USER"
	MysqlPassEnv            = "MYSQL_PASSWORD"
	MysqlHostEnv            = "MYSQL_HOST"
	MysqlPortEnv            = "MYSQL_PORT"

	DefaultPort            = 8080
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultAMQPExchange    = "orders_topic"
)

// Config holds the process settings read at startup.
type Config struct {
	Port                 int
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	ShutdownTimeout      time.Duration
	NormalizeOrderStatus bool

	// AMQPURL is empty when order events are only logged.
	AMQPURL      string
	AMQPExchange string

	// PolicyFile is a Rego module replacing the embedded operation policy in the default build.
	PolicyFile string

	Mysql MysqlConfig
}

// MysqlConfig locates the policy store used by the casbin build.
type MysqlConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// DSN returns the server-level data source name; the gorm adapter creates its own database.
func (c MysqlConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/", c.User, c.Password, c.Host, c.Port)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the optional env files (".env" when none are given) and then the process
// environment. Variables already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AMQPURL:      getenv(AMQPURLEnv),
		AMQPExchange: stringOr(getenv(AMQPExchangeEnv), DefaultAMQPExchange),
		PolicyFile:   getenv(PolicyFileEnv),
		Mysql: MysqlConfig{
			User:     getenv(MysqlUserEnv),
			Password: getenv(MysqlPassEnv),
			Host:     getenv(MysqlHostEnv),
			Port:     getenv(MysqlPortEnv),
		},
	}

	var errs []error
	var err error

	if cfg.Port, err = intOr(getenv, PortEnv, DefaultPort); err != nil {
		errs = append(errs, err)
	} else if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: port %d out of range", PortEnv, cfg.Port))
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{ReadTimeoutEnv, DefaultReadTimeout, &cfg.ReadTimeout},
		{WriteTimeoutEnv, DefaultWriteTimeout, &cfg.WriteTimeout},
		{IdleTimeoutEnv, DefaultIdleTimeout, &cfg.IdleTimeout},
		{ShutdownTimeoutEnv, DefaultShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = durationOr(getenv, d.key, d.def); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.NormalizeOrderStatus, err = boolOr(getenv, OrderStatusNormalizeEnv, false); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

func intOr(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}

	return n, nil
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}

	return d, nil
}

func boolOr(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}

	return b, nil
}
