package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Log        LogConfig        `mapstructure:"log"`
	X402       X402Config       `mapstructure:"x402"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// AdminConfig guards the operator/admin endpoints. An empty bootstrap
// secret disables token issuance over HTTP.
type AdminConfig struct {
	BootstrapSecret string `mapstructure:"bootstrap_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// X402Config describes where and how bookings are paid.
type X402Config struct {
	Network         string        `mapstructure:"network"`    // human name, e.g. avalanche-fuji
	NetworkID       string        `mapstructure:"network_id"` // CAIP-2 id, e.g. eip155:43113
	Asset           string        `mapstructure:"asset"`
	AssetDecimals   int           `mapstructure:"asset_decimals"`
	Recipient       string        `mapstructure:"recipient"`
	FacilitatorURL  string        `mapstructure:"facilitator_url"`
	FacilitatorMode string        `mapstructure:"facilitator_mode"` // simulated, http
	FacilitatorAuth string        `mapstructure:"facilitator_auth"`
	VerifyTimeout   time.Duration `mapstructure:"verify_timeout"`
	SettleTimeout   time.Duration `mapstructure:"settle_timeout"`
	PersistTimeout  time.Duration `mapstructure:"persist_timeout"` // ledger write after a settlement
	StrictReceipt   bool          `mapstructure:"strict_receipt"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	MaxTimeout      time.Duration `mapstructure:"max_timeout"` // advertised to clients
	ProofTTL        time.Duration `mapstructure:"proof_ttl"`
	ReceiptTTL      time.Duration `mapstructure:"receipt_ttl"`
}

type CatalogConfig struct {
	StrictSubtypes bool `mapstructure:"strict_subtypes"`
}

// RewardsConfig holds the loyalty and commission rates. Commission is in
// basis points of the settled amount.
type RewardsConfig struct {
	PointsPerUnit        int64 `mapstructure:"points_per_unit"`
	ServiceCommissionBps int64 `mapstructure:"service_commission_bps"`
	WashCommissionBps    int64 `mapstructure:"wash_commission_bps"`
}

type ReconcilerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ACG_ (AutoCare Gateway).
// Nested keys use underscore: ACG_DATABASE_HOST, ACG_X402_RECIPIENT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "autocare")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "autocare-x402-gateway")
	v.SetDefault("admin.bootstrap_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("x402.network", "avalanche-fuji")
	v.SetDefault("x402.network_id", "eip155:43113")
	v.SetDefault("x402.asset", "USDC")
	v.SetDefault("x402.asset_decimals", 6)
	v.SetDefault("x402.recipient", "0x742d35Cc6634C0532925a3b844Bc9e7595f8fCE8")
	v.SetDefault("x402.facilitator_url", "https://x402.org/facilitator")
	v.SetDefault("x402.facilitator_mode", "simulated")
	v.SetDefault("x402.facilitator_auth", "")
	v.SetDefault("x402.verify_timeout", "5s")
	v.SetDefault("x402.settle_timeout", "60s")
	v.SetDefault("x402.persist_timeout", "15s")
	v.SetDefault("x402.strict_receipt", false)
	v.SetDefault("x402.max_retries", 3)
	v.SetDefault("x402.retry_delay", "200ms")
	v.SetDefault("x402.max_timeout", "60s")
	v.SetDefault("x402.proof_ttl", "168h")
	v.SetDefault("x402.receipt_ttl", "24h")

	v.SetDefault("catalog.strict_subtypes", false)

	v.SetDefault("rewards.points_per_unit", 10)
	v.SetDefault("rewards.service_commission_bps", 1500)
	v.SetDefault("rewards.wash_commission_bps", 1000)

	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.interval", "30s")
	v.SetDefault("reconciler.batch_size", 20)
	v.SetDefault("reconciler.max_attempts", 8)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.limit", 60)
	v.SetDefault("ratelimit.window", "1m")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// ACG_X402_FACILITATOR_URL -> x402.facilitator_url
	v.SetEnvPrefix("ACG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the payment flow cannot run with.
func (c *Config) Validate() error {
	switch c.X402.FacilitatorMode {
	case "simulated", "http":
	default:
		return fmt.Errorf("x402.facilitator_mode must be simulated or http, got %q", c.X402.FacilitatorMode)
	}
	if c.X402.Recipient == "" {
		return errors.New("x402.recipient is required")
	}
	if c.X402.AssetDecimals != 6 {
		return fmt.Errorf("x402.asset_decimals: only 6-decimal assets are supported, got %d", c.X402.AssetDecimals)
	}
	if c.Rewards.ServiceCommissionBps < 0 || c.Rewards.ServiceCommissionBps > 10000 ||
		c.Rewards.WashCommissionBps < 0 || c.Rewards.WashCommissionBps > 10000 {
		return errors.New("rewards: commission bps must be within 0..10000")
	}
	if c.X402.SettleTimeout <= 0 || c.X402.VerifyTimeout <= 0 {
		return errors.New("x402: verify and settle timeouts must be positive")
	}
	return nil
}
