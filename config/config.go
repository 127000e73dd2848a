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
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Fraud    FraudConfig    `mapstructure:"fraud"`
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

// KafkaConfig configures the alert publisher. Disabled when no brokers are set.
type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	AlertTopic string   `mapstructure:"alert_topic"`
}

// Enabled reports whether alert publishing is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LedgerConfig tunes the wallet ledger hot path.
type LedgerConfig struct {
	// LockTimeout bounds SELECT ... FOR UPDATE acquisition; on expiry the
	// caller gets a retryable error instead of blocking indefinitely.
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
	// HistoryWindow bounds how far back fraud scoring reads the transaction log.
	HistoryWindow time.Duration `mapstructure:"history_window"`
	HistoryLimit  int           `mapstructure:"history_limit"`
}

// FraudConfig tunes the fraud scorer signals. All thresholds are evaluated
// deterministically against the event and its history window.
type FraudConfig struct {
	HighValueThreshold string `mapstructure:"high_value_threshold"` // decimal string
	VelocityCount      int    `mapstructure:"velocity_count"`
	DrainRatioPercent  int    `mapstructure:"drain_ratio_percent"`
	PlatformSpread     int    `mapstructure:"platform_spread"`
	RepeatedAmountMin  int    `mapstructure:"repeated_amount_min"`
	HighRiskAlertScore int    `mapstructure:"high_risk_alert_score"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WLE_ (Wallet Ledger Engine).
// Nested keys use underscore: WLE_DATABASE_HOST, WLE_LEDGER_LOCK_TIMEOUT, etc.
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
	v.SetDefault("database.dbname", "wallet_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.alert_topic", "ledger.audit.alerts")
	v.SetDefault("ledger.lock_timeout", "3s")
	v.SetDefault("ledger.idempotency_ttl", "24h")
	v.SetDefault("ledger.history_window", "30m")
	v.SetDefault("ledger.history_limit", 100)
	v.SetDefault("fraud.high_value_threshold", "500")
	v.SetDefault("fraud.velocity_count", 5)
	v.SetDefault("fraud.drain_ratio_percent", 80)
	v.SetDefault("fraud.platform_spread", 3)
	v.SetDefault("fraud.repeated_amount_min", 3)
	v.SetDefault("fraud.high_risk_alert_score", 75)
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

	// Environment variables: WLE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WLE")
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

	return &cfg, nil
}
