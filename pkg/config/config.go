package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	Checkout      CheckoutConfig
	Media         MediaConfig
	Dashboard     DashboardConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"KIBIDO_APP_ENV" required:"true"`
	Port         string `envconfig:"KIBIDO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIBIDO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIBIDO_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"KIBIDO_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIBIDO_DB_DSN"`
	Driver string `envconfig:"KIBIDO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KIBIDO_DB_HOST"`
	LegacyPort     int    `envconfig:"KIBIDO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KIBIDO_DB_USER"`
	LegacyPassword string `envconfig:"KIBIDO_DB_PASSWORD"`
	LegacyName     string `envconfig:"KIBIDO_DB_NAME"`
	LegacySSLMode  string `envconfig:"KIBIDO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIBIDO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIBIDO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIBIDO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIBIDO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIBIDO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KIBIDO_REDIS_ADDR"`
	Password     string        `envconfig:"KIBIDO_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIBIDO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIBIDO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIBIDO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIBIDO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIBIDO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIBIDO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIBIDO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIBIDO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KIBIDO_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KIBIDO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KIBIDO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KIBIDO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KIBIDO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KIBIDO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"KIBIDO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"KIBIDO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"KIBIDO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KIBIDO_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"KIBIDO_CART_SESSION_TTL" default:"720h"`
}

type CatalogConfig struct {
	CacheTTL        time.Duration `envconfig:"KIBIDO_CATALOG_CACHE_TTL" default:"1m"`
	DefaultPerPage  int           `envconfig:"KIBIDO_CATALOG_DEFAULT_PER_PAGE" default:"12"`
	MaxPerPage      int           `envconfig:"KIBIDO_CATALOG_MAX_PER_PAGE" default:"48"`
	PriceBoundSlack int           `envconfig:"KIBIDO_CATALOG_PRICE_BOUND_SLACK" default:"5000"`
}

type CheckoutConfig struct {
	WhatsAppNumber string `envconfig:"KIBIDO_WHATSAPP_NUMBER" required:"true"`
}

type MediaConfig struct {
	UploadDir     string `envconfig:"KIBIDO_MEDIA_UPLOAD_DIR" default:"public/images/products"`
	PublicBaseURL string `envconfig:"KIBIDO_MEDIA_PUBLIC_BASE_URL" default:"/images/products"`
	MaxUploadMB   int    `envconfig:"KIBIDO_MEDIA_MAX_UPLOAD_MB" default:"20"`
}

type DashboardConfig struct {
	CacheTTL       time.Duration `envconfig:"KIBIDO_DASHBOARD_CACHE_TTL" default:"1m"`
	RecentHandoffs int           `envconfig:"KIBIDO_DASHBOARD_RECENT_HANDOFFS" default:"5"`
	TopCategories  int           `envconfig:"KIBIDO_DASHBOARD_TOP_CATEGORIES" default:"5"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KIBIDO_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"KIBIDO_PUBSUB_DOMAIN_TOPIC" default:"kibido-domain-events"`
	DomainSubscription string `envconfig:"KIBIDO_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KIBIDO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KIBIDO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KIBIDO_OUTBOX_MAX_ATTEMPTS" default:"10"`

	MetricsAddr string `envconfig:"KIBIDO_OUTBOX_METRICS_ADDR" default:""`
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
