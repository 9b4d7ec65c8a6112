package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "campushub"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CAMPUSHUB_DB_DSN"
	EnvDBHost = "CAMPUSHUB_DB_HOST"
	EnvDBUser = "CAMPUSHUB_DB_USER"
	EnvDBName = "CAMPUSHUB_DB_NAME"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Realtime      RealtimeConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"CAMPUSHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CAMPUSHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CAMPUSHUB_DB_DSN"`

	Host     string `envconfig:"CAMPUSHUB_DB_HOST"`
	Port     int    `envconfig:"CAMPUSHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"CAMPUSHUB_DB_USER"`
	Password string `envconfig:"CAMPUSHUB_DB_PASSWORD"`
	Name     string `envconfig:"CAMPUSHUB_DB_NAME"`
	SSLMode  string `envconfig:"CAMPUSHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, EnvDBHost)
	}
	if db.User == "" {
		missing = append(missing, EnvDBUser)
	}
	if db.Name == "" {
		missing = append(missing, EnvDBName)
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

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSHUB_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CAMPUSHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAMPUSHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CAMPUSHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CAMPUSHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUSHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUSHUB_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"CAMPUSHUB_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"CAMPUSHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUSHUB_ARGON_KEY_LEN" default:"32"`
}

type RealtimeConfig struct {
	// SendBufferSize is the per-connection outbound queue; pushes beyond it are dropped.
	SendBufferSize  int           `envconfig:"CAMPUSHUB_WS_SEND_BUFFER" default:"32"`
	WriteTimeout    time.Duration `envconfig:"CAMPUSHUB_WS_WRITE_TIMEOUT" default:"10s"`
	PongTimeout     time.Duration `envconfig:"CAMPUSHUB_WS_PONG_TIMEOUT" default:"60s"`
	PingInterval    time.Duration `envconfig:"CAMPUSHUB_WS_PING_INTERVAL" default:"25s"`
	MaxMessageBytes int64         `envconfig:"CAMPUSHUB_WS_MAX_MESSAGE_BYTES" default:"4096"`
	AllowedOrigin   string        `envconfig:"CAMPUSHUB_WS_ALLOWED_ORIGIN"`
}
