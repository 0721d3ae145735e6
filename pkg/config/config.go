package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Services ServicesConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Cart     CartConfig
	Sandbox  SandboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Services.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg.Redis); err != nil {
		return nil, err
	}
	if !cfg.Cart.Mode.IsValid() {
		return nil, fmt.Errorf("invalid %s %q", EnvCartMode, cfg.Cart.Mode)
	}
	return &cfg, nil
}

// LoadSandbox parses only the settings needed by the sandbox backend.
func LoadSandbox() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg.App); err != nil {
		return nil, fmt.Errorf("parsing app config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Sandbox); err != nil {
		return nil, fmt.Errorf("parsing sandbox config: %w", err)
	}
	if err := cfg.Sandbox.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ServicesConfig points the client at the collaborator backends.
type ServicesConfig struct {
	UserBaseURL    string        `envconfig:"STOREFRONT_USER_API_URL" default:"http://localhost:8081/api/v1"`
	CartBaseURL    string        `envconfig:"STOREFRONT_CART_API_URL" default:"http://localhost:8082/api/v1"`
	ProductBaseURL string        `envconfig:"STOREFRONT_PRODUCT_API_URL" default:"http://localhost:8082/api/v1"`
	OrderBaseURL   string        `envconfig:"STOREFRONT_ORDER_API_URL" default:"http://localhost:8083/api/v1"`
	HTTPTimeout    time.Duration `envconfig:"STOREFRONT_HTTP_TIMEOUT" default:"15s"`
}

func (s ServicesConfig) validate() error {
	urls := map[string]string{
		EnvUserAPIURL:    s.UserBaseURL,
		EnvCartAPIURL:    s.CartBaseURL,
		EnvProductAPIURL: s.ProductBaseURL,
		EnvOrderAPIURL:   s.OrderBaseURL,
	}
	for _, name := range serviceURLEnvVars {
		raw := urls[name]
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%s must be an absolute http(s) url, got %q", name, raw)
		}
	}
	return nil
}

// StorageConfig selects where the credential and cart cache persist.
type StorageConfig struct {
	Driver  string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sql"`
	SQLPath string `envconfig:"STOREFRONT_STORAGE_SQL_PATH" default:"storefront.db"`
}

func (s StorageConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverMemory:
		return nil
	case StorageDriverSQL:
		if strings.TrimSpace(s.SQLPath) == "" {
			return fmt.Errorf("%s is required for the sql storage driver", EnvStorageSQLPath)
		}
		return nil
	case StorageDriverRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	}
	return fmt.Errorf("invalid %s %q", EnvStorageDriver, s.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"STOREFRONT_REDIS_NAMESPACE" default:"sf"`
}

// CartMode picks the cart persistence strategy that acts as system of record.
type CartMode string

const (
	CartModeServer CartMode = "server"
	CartModeLocal  CartMode = "local"
)

func (m CartMode) IsValid() bool {
	return m == CartModeServer || m == CartModeLocal
}

type CartConfig struct {
	Mode CartMode `envconfig:"STOREFRONT_CART_MODE" default:"server"`

	// FallbackUserID is only consulted in local mode.
	FallbackUserID int64 `envconfig:"STOREFRONT_CART_FALLBACK_USER_ID" default:"1"`
}

// SandboxConfig configures the local rendition of the collaborator services.
type SandboxConfig struct {
	Port            string        `envconfig:"STOREFRONT_SANDBOX_PORT" default:"8080"`
	PaymentLinkBase string        `envconfig:"STOREFRONT_SANDBOX_PAYMENT_LINK_BASE" default:"https://sandbox.pay.local/i"`
	SeedProducts    bool          `envconfig:"STOREFRONT_SANDBOX_SEED_PRODUCTS" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SANDBOX_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"STOREFRONT_SANDBOX_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AutoMigrate     bool          `envconfig:"STOREFRONT_SANDBOX_AUTO_MIGRATE" default:"true"`
	MigrationsDir   string        `envconfig:"STOREFRONT_SANDBOX_MIGRATIONS_DIR" default:"pkg/migrate/migrations"`
	DB              DBConfig
	JWT             JWTConfig
	Password        PasswordConfig
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_SANDBOX_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_SANDBOX_DB_DSN"`

	Host     string `envconfig:"STOREFRONT_SANDBOX_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_SANDBOX_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_SANDBOX_DB_USER"`
	Password string `envconfig:"STOREFRONT_SANDBOX_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_SANDBOX_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_SANDBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_SANDBOX_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_SANDBOX_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_SANDBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_SANDBOX_JWT_SECRET" default:"sandbox-secret"`
	Issuer            string `envconfig:"STOREFRONT_SANDBOX_JWT_ISSUER" default:"storefront-sandbox"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_SANDBOX_JWT_EXPIRATION_MINUTES" default:"120"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_SANDBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_SANDBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_SANDBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_SANDBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_SANDBOX_ARGON_KEY_LEN" default:"32"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:sandbox.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if legacyValues[env] == "" {
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
