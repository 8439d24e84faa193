package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "MHCLOTH"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv = "MHCLOTH_APP_ENV"
	EnvPort   = "MHCLOTH_APP_PORT"
	EnvDBDSN  = "MHCLOTH_DB_DSN"
	EnvDBHost = "MHCLOTH_DB_HOST"
	EnvDBUser = "MHCLOTH_DB_USER"
	EnvDBName = "MHCLOTH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	CORS          CORSConfig
	Cart          CartConfig
	Janitor       JanitorConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"MHCLOTH_APP_ENV" required:"true"`
	Port         string `envconfig:"MHCLOTH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MHCLOTH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MHCLOTH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MHCLOTH_DB_DSN"`
	Driver string `envconfig:"MHCLOTH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MHCLOTH_DB_HOST"`
	LegacyPort     int    `envconfig:"MHCLOTH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MHCLOTH_DB_USER"`
	LegacyPassword string `envconfig:"MHCLOTH_DB_PASSWORD"`
	LegacyName     string `envconfig:"MHCLOTH_DB_NAME"`
	LegacySSLMode  string `envconfig:"MHCLOTH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MHCLOTH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MHCLOTH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MHCLOTH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MHCLOTH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MHCLOTH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MHCLOTH_REDIS_ADDR"`
	Password     string        `envconfig:"MHCLOTH_REDIS_PASSWORD"`
	DB           int           `envconfig:"MHCLOTH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MHCLOTH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MHCLOTH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MHCLOTH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MHCLOTH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MHCLOTH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MHCLOTH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MHCLOTH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MHCLOTH_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"MHCLOTH_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MHCLOTH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MHCLOTH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MHCLOTH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MHCLOTH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MHCLOTH_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MHCLOTH_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// CartConfig controls the in-memory cart session store.
type CartConfig struct {
	SessionTTL time.Duration `envconfig:"MHCLOTH_CART_SESSION_TTL" default:"72h"`
}

// JanitorConfig controls the scheduled maintenance worker.
type JanitorConfig struct {
	Interval        time.Duration `envconfig:"MHCLOTH_JANITOR_INTERVAL" default:"1h"`
	LockTTL         time.Duration `envconfig:"MHCLOTH_JANITOR_LOCK_TTL" default:"2h"`
	OrderExpiryDays int           `envconfig:"MHCLOTH_JANITOR_ORDER_EXPIRY_DAYS" default:"14"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
	LoginEmailLimit    int           `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
	RegisterWindow     time.Duration `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MHCLOTH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MHCLOTH_AUTO_MIGRATE" default:"false"`
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
	for _, envVar := range legacyDBEnvVars {
		if legacyValues[envVar] == "" {
			missing = append(missing, envVar)
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
