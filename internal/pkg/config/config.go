// Package config holds the engine's configuration surface: server,
// database, cache, message broker, rule catalog/thresholds, model
// artifacts, and logging.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Rules    RulesConfig    `mapstructure:"rules"`
	ML       MLConfig       `mapstructure:"ml"`
	GeoIP    GeoIPConfig    `mapstructure:"geoip"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration for the authoritative store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds the cache-through backend configuration.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig holds the alert sink's broker configuration.
type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	AlertTopic string   `mapstructure:"alert_topic"`
	Enabled    bool     `mapstructure:"enabled"`
}

// VelocityWindowConfig is one configurable (duration, max-count,
// max-amount) velocity triple.
type VelocityWindowConfig struct {
	Name            string  `mapstructure:"name"`
	WindowMinutes   int     `mapstructure:"window_minutes"`
	MaxTransactions int     `mapstructure:"max_transactions"`
	MaxAmount       float64 `mapstructure:"max_amount"`
}

// RulesConfig holds the rule catalog and risk-classification thresholds.
type RulesConfig struct {
	VelocityWeight     float64                `mapstructure:"velocity_weight"`
	AmountAnomalyWeight float64               `mapstructure:"amount_anomaly_weight"`
	GeolocationWeight  float64                `mapstructure:"geolocation_weight"`
	DeviceWeight       float64                `mapstructure:"device_weight"`
	TimePatternWeight  float64                `mapstructure:"time_pattern_weight"`

	VelocityEnabled     bool `mapstructure:"velocity_enabled"`
	AmountAnomalyEnabled bool `mapstructure:"amount_anomaly_enabled"`
	GeolocationEnabled  bool `mapstructure:"geolocation_enabled"`
	DeviceEnabled       bool `mapstructure:"device_enabled"`
	TimePatternEnabled  bool `mapstructure:"time_pattern_enabled"`

	VelocityWindows []VelocityWindowConfig `mapstructure:"velocity_windows"`

	// Level thresholds, inclusive lower bound. Validate checks their range
	// and order; risk.LevelOf and risk.ActionOf use fixed 0.3/0.6/0.8 bands
	// and do not read these fields.
	MediumThreshold   float64 `mapstructure:"medium_threshold"`
	HighThreshold     float64 `mapstructure:"high_threshold"`
	CriticalThreshold float64 `mapstructure:"critical_threshold"`
}

// MLConfig holds the model scorer's artifact location. ModelPath names a
// single JSON file holding the model, scaler and feature names; no
// separate scaler or feature-name files are derived from it.
type MLConfig struct {
	ModelPath    string `mapstructure:"model_path"`
	ModelVersion string `mapstructure:"model_version"`
	Enabled      bool   `mapstructure:"enabled"`
}

// GeoIPConfig points at an optional MaxMind mmdb file used to enrich
// transactions that arrive with an IP address but no country. An
// empty path disables enrichment.
type GeoIPConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// PipelineConfig holds the per-assessment deadline and profile
// cache TTL.
type PipelineConfig struct {
	AssessmentDeadline time.Duration `mapstructure:"assessment_deadline"`
	ProfileCacheTTL    time.Duration `mapstructure:"profile_cache_ttl"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "riskassess",
			Password:        "",
			Name:            "riskassess",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         6379,
			Password:     "",
			DB:           0,
			PoolSize:     10,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    []string{"localhost:9092"},
			AlertTopic: "fraud-alerts",
			Enabled:    false,
		},
		Rules: RulesConfig{
			VelocityWeight:       0.30,
			AmountAnomalyWeight:  0.25,
			GeolocationWeight:    0.20,
			DeviceWeight:         0.15,
			TimePatternWeight:    0.10,
			VelocityEnabled:      true,
			AmountAnomalyEnabled: true,
			GeolocationEnabled:   true,
			DeviceEnabled:        true,
			TimePatternEnabled:   true,
			VelocityWindows: []VelocityWindowConfig{
				{Name: "hourly", WindowMinutes: 60, MaxTransactions: 10},
				{Name: "daily", WindowMinutes: 1440, MaxTransactions: 50, MaxAmount: 10000},
				{Name: "weekly", WindowMinutes: 10080, MaxTransactions: 200, MaxAmount: 50000},
			},
			MediumThreshold:   0.3,
			HighThreshold:     0.6,
			CriticalThreshold: 0.8,
		},
		ML: MLConfig{
			ModelPath:    "./models/fraud_model.pkl",
			ModelVersion: "v1.0.0",
			Enabled:      true,
		},
		Pipeline: PipelineConfig{
			AssessmentDeadline: 500 * time.Millisecond,
			ProfileCacheTTL:    300 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
