package config

import (
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
	Midtrans MidtransConfig `mapstructure:"midtrans"`
	Log      LogConfig      `mapstructure:"log"`
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

// MidtransConfig holds the payment gateway credentials and endpoints.
// It is injected into the gateway client and the notification verifier
// at construction time; there is no process-wide gateway state.
type MidtransConfig struct {
	ServerKey    string        `mapstructure:"server_key"`
	ClientKey    string        `mapstructure:"client_key"`
	IsProduction bool          `mapstructure:"is_production"`
	Expiry       time.Duration `mapstructure:"expiry"`       // Snap token validity
	CallbackURL  string        `mapstructure:"callback_url"` // Wallet-channel redirect target
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	QRISAcquirer string        `mapstructure:"qris_acquirer"`
	CStoreOutlet string        `mapstructure:"cstore_outlet"`
}

// SnapBaseURL returns the Snap API base for the configured environment.
func (m MidtransConfig) SnapBaseURL() string {
	if m.IsProduction {
		return "https://app.midtrans.com"
	}
	return "https://app.sandbox.midtrans.com"
}

// APIBaseURL returns the core API base for the configured environment.
func (m MidtransConfig) APIBaseURL() string {
	if m.IsProduction {
		return "https://api.midtrans.com"
	}
	return "https://api.sandbox.midtrans.com"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ALOMONTIR.
// Nested keys use underscore: ALOMONTIR_DATABASE_HOST, ALOMONTIR_MIDTRANS_SERVER_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "alo_montir")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("midtrans.server_key", "")
	v.SetDefault("midtrans.client_key", "")
	v.SetDefault("midtrans.is_production", false)
	v.SetDefault("midtrans.expiry", "60m")
	v.SetDefault("midtrans.callback_url", "")
	v.SetDefault("midtrans.http_timeout", "10s")
	v.SetDefault("midtrans.qris_acquirer", "gopay")
	v.SetDefault("midtrans.cstore_outlet", "indomaret")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ALOMONTIR_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ALOMONTIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
