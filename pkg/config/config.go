package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is applied by envconfig to every variable lookup.
	EnvPrefix = "SHOPMETRICS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOPMETRICS_DB_DSN"
	EnvDBHost = "SHOPMETRICS_DB_HOST"
	EnvDBUser = "SHOPMETRICS_DB_USER"
	EnvDBName = "SHOPMETRICS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Woo     WooConfig
	Sync    SyncConfig
	Cron    CronConfig
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
	Env          string `envconfig:"SHOPMETRICS_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"SHOPMETRICS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPMETRICS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPMETRICS_SERVICE_KIND" default:"sync-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPMETRICS_DB_DSN"`
	Driver string `envconfig:"SHOPMETRICS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPMETRICS_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPMETRICS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPMETRICS_DB_USER"`
	LegacyPassword string `envconfig:"SHOPMETRICS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPMETRICS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPMETRICS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPMETRICS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPMETRICS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPMETRICS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPMETRICS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"SHOPMETRICS_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPMETRICS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPMETRICS_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPMETRICS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPMETRICS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPMETRICS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPMETRICS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPMETRICS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPMETRICS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPMETRICS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPMETRICS_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SHOPMETRICS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPMETRICS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SyncTopic        string `envconfig:"SHOPMETRICS_PUBSUB_SYNC_TOPIC" default:"sm-sync-events"`
	SyncSubscription string `envconfig:"SHOPMETRICS_PUBSUB_SYNC_SUBSCRIPTION" required:"true"`
}

// WooConfig carries transport defaults for the WooCommerce REST client.
// Credentials are per-store rows, not environment values.
type WooConfig struct {
	Timeout       time.Duration `envconfig:"SHOPMETRICS_WOO_TIMEOUT" default:"30s"`
	PageSize      int           `envconfig:"SHOPMETRICS_WOO_PAGE_SIZE" default:"100"`
	RetryAttempts int           `envconfig:"SHOPMETRICS_WOO_RETRY_ATTEMPTS" default:"3"`
	RetryBackoff  time.Duration `envconfig:"SHOPMETRICS_WOO_RETRY_BACKOFF" default:"2s"`
}

type SyncConfig struct {
	SummaryWindowDays int `envconfig:"SHOPMETRICS_SYNC_SUMMARY_WINDOW_DAYS" default:"120"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SHOPMETRICS_CRON_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
