package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SLEEKLINE_DB_DSN"
	EnvDBHost = "SLEEKLINE_DB_HOST"
	EnvDBUser = "SLEEKLINE_DB_USER"
	EnvDBName = "SLEEKLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Moolre        MoolreConfig
	Notifications NotificationsConfig
	Verification  VerificationConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SLEEKLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"SLEEKLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLEEKLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLEEKLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLEEKLINE_DB_DSN"`
	Driver string `envconfig:"SLEEKLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLEEKLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"SLEEKLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLEEKLINE_DB_USER"`
	LegacyPassword string `envconfig:"SLEEKLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLEEKLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLEEKLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLEEKLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLEEKLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLEEKLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLEEKLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLEEKLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SLEEKLINE_REDIS_ADDR"`
	Password     string        `envconfig:"SLEEKLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLEEKLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLEEKLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLEEKLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLEEKLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLEEKLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLEEKLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SLEEKLINE_JWT_SECRET"`
	Issuer            string `envconfig:"SLEEKLINE_JWT_ISSUER" default:"sleekline"`
	ExpirationMinutes int    `envconfig:"SLEEKLINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// MoolreConfig points the payment adapter at the hosted mobile-money processor.
type MoolreConfig struct {
	Endpoint    string        `envconfig:"SLEEKLINE_MOOLRE_ENDPOINT" required:"true"`
	APIUser     string        `envconfig:"SLEEKLINE_MOOLRE_API_USER"`
	APIKey      string        `envconfig:"SLEEKLINE_MOOLRE_API_KEY"`
	AccountID   string        `envconfig:"SLEEKLINE_MOOLRE_ACCOUNT_ID"`
	CallbackURL string        `envconfig:"SLEEKLINE_MOOLRE_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"SLEEKLINE_MOOLRE_TIMEOUT" default:"30s"`
}

type NotificationsConfig struct {
	Endpoint string        `envconfig:"SLEEKLINE_NOTIFICATIONS_ENDPOINT"`
	Timeout  time.Duration `envconfig:"SLEEKLINE_NOTIFICATIONS_TIMEOUT" default:"10s"`
}

// VerificationConfig configures the human-verification oracle gating
// checkout and contact submissions.
type VerificationConfig struct {
	Endpoint string        `envconfig:"SLEEKLINE_VERIFICATION_ENDPOINT"`
	Secret   string        `envconfig:"SLEEKLINE_VERIFICATION_SECRET"`
	MinScore float64       `envconfig:"SLEEKLINE_VERIFICATION_MIN_SCORE" default:"0.5"`
	Timeout  time.Duration `envconfig:"SLEEKLINE_VERIFICATION_TIMEOUT" default:"10s"`
	Bypass   bool          `envconfig:"SLEEKLINE_VERIFICATION_BYPASS" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLEEKLINE_AUTO_MIGRATE" default:"false"`
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
