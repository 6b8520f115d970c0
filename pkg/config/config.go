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
	Auth         AuthConfig
	Square       SquareConfig
	Plan         PlanConfig
	Search       SearchConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.DB.UsesSQLite()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPFRONT_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"SHOPFRONT_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"SHOPFRONT_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPFRONT_DB_DSN"`
	Driver string `envconfig:"SHOPFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPFRONT_DB_USER"`
	LegacyPassword string `envconfig:"SHOPFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPFRONT_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"SHOPFRONT_SQLITE_PATH" default:"shopfront.db"`

	MaxOpenConns    int           `envconfig:"SHOPFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UsesSQLite reports whether the local single-file database should be used instead of Postgres.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPFRONT_REDIS_URL"`
	Address      string        `envconfig:"SHOPFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig describes how access tokens minted by the hosted auth provider are verified.
type AuthConfig struct {
	JWTSecret string `envconfig:"SHOPFRONT_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"SHOPFRONT_AUTH_JWT_ISSUER"`
	Audience  string `envconfig:"SHOPFRONT_AUTH_JWT_AUDIENCE" default:"authenticated"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"SHOPFRONT_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"SHOPFRONT_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type PlanConfig struct {
	ProPeriodDays  int    `envconfig:"SHOPFRONT_PLAN_PRO_PERIOD_DAYS" default:"30"`
	ProPriceAmount string `envconfig:"SHOPFRONT_PLAN_PRO_PRICE" default:"50.00"`
	Currency       string `envconfig:"SHOPFRONT_PLAN_CURRENCY" default:"GHS"`
}

// ProPeriod returns the length of one paid Pro period.
func (p PlanConfig) ProPeriod() time.Duration {
	if p.ProPeriodDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(p.ProPeriodDays) * 24 * time.Hour
}

type SearchConfig struct {
	CorpusTTL      time.Duration `envconfig:"SHOPFRONT_SEARCH_CORPUS_TTL" default:"30s"`
	MaxQueryLength int           `envconfig:"SHOPFRONT_SEARCH_MAX_QUERY_LENGTH" default:"100"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SHOPFRONT_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"SHOPFRONT_CRON_LOCK_TTL" default:"55m"`
}

// RateLimitConfig throttles anonymous write endpoints per client IP.
type RateLimitConfig struct {
	ReviewWindow time.Duration `envconfig:"SHOPFRONT_RATE_LIMIT_REVIEW_WINDOW" default:"10m"`
	ReviewLimit  int           `envconfig:"SHOPFRONT_RATE_LIMIT_REVIEW_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite      bool `envconfig:"SHOPFRONT_USE_SQLITE" default:"false"`
	AutoMigrate    bool `envconfig:"SHOPFRONT_AUTO_MIGRATE" default:"false"`
	VerifyPayments bool `envconfig:"SHOPFRONT_VERIFY_PAYMENTS" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
