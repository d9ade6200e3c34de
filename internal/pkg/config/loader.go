package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file and environment
// variables, layered over DefaultConfig. A missing configPath is not an
// error: defaults and environment overrides still apply.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("RISKASSESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.name", cfg.Database.Name)
	v.SetDefault("database.ssl_mode", cfg.Database.SSLMode)

	v.SetDefault("redis.host", cfg.Redis.Host)
	v.SetDefault("redis.port", cfg.Redis.Port)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.pool_size", cfg.Redis.PoolSize)

	v.SetDefault("kafka.brokers", cfg.Kafka.Brokers)
	v.SetDefault("kafka.alert_topic", cfg.Kafka.AlertTopic)
	v.SetDefault("kafka.enabled", cfg.Kafka.Enabled)

	v.SetDefault("rules.velocity_weight", cfg.Rules.VelocityWeight)
	v.SetDefault("rules.amount_anomaly_weight", cfg.Rules.AmountAnomalyWeight)
	v.SetDefault("rules.geolocation_weight", cfg.Rules.GeolocationWeight)
	v.SetDefault("rules.device_weight", cfg.Rules.DeviceWeight)
	v.SetDefault("rules.time_pattern_weight", cfg.Rules.TimePatternWeight)
	v.SetDefault("rules.medium_threshold", cfg.Rules.MediumThreshold)
	v.SetDefault("rules.high_threshold", cfg.Rules.HighThreshold)
	v.SetDefault("rules.critical_threshold", cfg.Rules.CriticalThreshold)

	v.SetDefault("geoip.database_path", cfg.GeoIP.DatabasePath)

	v.SetDefault("ml.model_path", cfg.ML.ModelPath)
	v.SetDefault("ml.model_version", cfg.ML.ModelVersion)
	v.SetDefault("ml.enabled", cfg.ML.Enabled)

	v.SetDefault("pipeline.assessment_deadline", cfg.Pipeline.AssessmentDeadline)
	v.SetDefault("pipeline.profile_cache_ttl", cfg.Pipeline.ProfileCacheTTL)
}
