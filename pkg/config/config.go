package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Metrics      MetricsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BLOOMSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"BLOOMSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLOOMSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLOOMSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLOOMSTOCK_DB_DSN"`
	Driver string `envconfig:"BLOOMSTOCK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BLOOMSTOCK_DB_HOST"`
	Port     int    `envconfig:"BLOOMSTOCK_DB_PORT" default:"5432"`
	User     string `envconfig:"BLOOMSTOCK_DB_USER"`
	Password string `envconfig:"BLOOMSTOCK_DB_PASSWORD"`
	Name     string `envconfig:"BLOOMSTOCK_DB_NAME"`
	SSLMode  string `envconfig:"BLOOMSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOOMSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOOMSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOOMSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOOMSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// LockTimeout bounds how long a write-off waits on batch row locks before
	// the store fails the transaction. Zero keeps the server default.
	LockTimeout time.Duration `envconfig:"BLOOMSTOCK_DB_LOCK_TIMEOUT" default:"5s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLOOMSTOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLOOMSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"BLOOMSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOOMSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOOMSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOOMSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOOMSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOOMSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOOMSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"BLOOMSTOCK_METRICS_ENABLED" default:"true"`
	Port    string `envconfig:"BLOOMSTOCK_METRICS_PORT" default:"9100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLOOMSTOCK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
