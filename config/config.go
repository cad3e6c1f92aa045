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
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Operator OperatorConfig `mapstructure:"operator"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
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
	ConnectRetries  int           `mapstructure:"connect_retries"` // extra attempts at startup
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	ConnectRetries int    `mapstructure:"connect_retries"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// VaultConfig points the dashboard at one vault of the on-chain program.
type VaultConfig struct {
	ProgramID      string        `mapstructure:"program_id"`
	Name           string        `mapstructure:"name"`
	RPCURL         string        `mapstructure:"rpc_url"`
	WSURL          string        `mapstructure:"ws_url"`
	TokenMint      string        `mapstructure:"token_mint"`
	MintDecimal    uint8         `mapstructure:"mint_decimal"`
	Commitment     string        `mapstructure:"commitment"` // processed, confirmed, finalized
	MinDeposit     string        `mapstructure:"min_deposit"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	RPCRateLimit   float64       `mapstructure:"rpc_rate_limit"` // requests per second
}

type RefreshConfig struct {
	VaultInterval time.Duration `mapstructure:"vault_interval"`
	UserInterval  time.Duration `mapstructure:"user_interval"`
	BatchInterval time.Duration `mapstructure:"batch_interval"`
}

type WalletConfig struct {
	KeypairPath string `mapstructure:"keypair_path"` // solana-keygen JSON file
	AutoConnect bool   `mapstructure:"auto_connect"`
}

// OperatorConfig holds the HMAC credentials for mutating endpoints.
type OperatorConfig struct {
	AccessKey    string        `mapstructure:"access_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	MaxClockSkew time.Duration `mapstructure:"max_clock_skew"`
	NonceTTL     time.Duration `mapstructure:"nonce_ttl"`
}

type WebhookConfig struct {
	URL        string        `mapstructure:"url"` // empty disables notifications
	Secret     string        `mapstructure:"secret"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: VDB_ (Vault DashBoard).
// Nested keys use underscore: VDB_VAULT_RPC_URL, VDB_OPERATOR_SECRET_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("VDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "vault_dashboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("vault.program_id", "BEgy2zPNRLFFmo3LdpQrW8qyYYjw6NhdF1RwUCLrPh7T")
	v.SetDefault("vault.name", "test-vault-fast")
	v.SetDefault("vault.rpc_url", "https://api.testnet.sonic.game")
	v.SetDefault("vault.ws_url", "wss://api.testnet.sonic.game")
	v.SetDefault("vault.token_mint", "EV9BocFxbKU1HtCwCH4jVmizHKNeRJ4USTy6zzgBBa6z")
	v.SetDefault("vault.mint_decimal", 9)
	v.SetDefault("vault.commitment", "confirmed")
	v.SetDefault("vault.min_deposit", "10")
	v.SetDefault("vault.confirm_timeout", "60s")
	v.SetDefault("vault.rpc_rate_limit", 10)

	v.SetDefault("refresh.vault_interval", "30s")
	v.SetDefault("refresh.user_interval", "30s")
	v.SetDefault("refresh.batch_interval", "10s")

	v.SetDefault("wallet.keypair_path", "")
	v.SetDefault("wallet.auto_connect", false)

	v.SetDefault("operator.access_key", "")
	v.SetDefault("operator.secret_key", "")
	v.SetDefault("operator.max_clock_skew", "60s")
	v.SetDefault("operator.nonce_ttl", "120s")

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.max_retries", 5)

	v.SetDefault("metrics.enabled", true)
}

// Validate checks values that would otherwise fail deep inside the adapters.
func (c *Config) Validate() error {
	var errs []error

	if c.Vault.ProgramID == "" {
		errs = append(errs, errors.New("vault.program_id is required"))
	}
	if c.Vault.Name == "" {
		errs = append(errs, errors.New("vault.name is required"))
	}
	if c.Vault.MintDecimal > 18 {
		errs = append(errs, fmt.Errorf("vault.mint_decimal must be <= 18, got %d", c.Vault.MintDecimal))
	}
	switch c.Vault.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		errs = append(errs, fmt.Errorf("vault.commitment %q is not one of processed, confirmed, finalized", c.Vault.Commitment))
	}
	if c.Vault.ConfirmTimeout <= 0 {
		errs = append(errs, errors.New("vault.confirm_timeout must be positive"))
	}
	if c.Refresh.VaultInterval <= 0 || c.Refresh.UserInterval <= 0 || c.Refresh.BatchInterval <= 0 {
		errs = append(errs, errors.New("refresh intervals must be positive"))
	}
	if c.Webhook.URL != "" && c.Webhook.Secret == "" {
		errs = append(errs, errors.New("webhook.secret is required when webhook.url is set"))
	}

	return errors.Join(errs...)
}
