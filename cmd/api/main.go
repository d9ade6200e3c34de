package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/mdeadwiler/riskassess/internal/application/assessment"
	"github.com/mdeadwiler/riskassess/internal/domain/risk"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/aggregator"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/alert"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/cache/redis"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/database/postgres"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/geoip"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/http/router"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/ml"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/profile"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/rules"
	"github.com/mdeadwiler/riskassess/internal/infrastructure/standalone"
	"github.com/mdeadwiler/riskassess/internal/interfaces/http/handler"
	"github.com/mdeadwiler/riskassess/internal/pkg/config"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("warning: could not load config file, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: version}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	logger.Info("starting risk assessment engine", zap.String("version", version))

	// Database connection.
	var pgStore *postgres.Store
	var dbChecker handler.HealthChecker
	db, err := postgres.Connect(postgres.ConnectConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Warn("database connection failed, running in limited mode", zap.Error(err))
	} else {
		logger.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.Int("port", cfg.Database.Port))
		pgStore = postgres.New(db)
		dbChecker = pingChecker{ping: func(ctx context.Context) error { return postgres.Ping(db) }}
	}

	// Redis connection.
	var profileCache *redis.ProfileCache
	var velocityCache *redis.VelocityCache
	var deviceCache *redis.DeviceCache
	var historyCache *redis.HistoryCache
	var redisChecker handler.HealthChecker

	redisClient, err := redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Warn("redis connection failed, running in limited mode", zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		profileCache = redis.NewProfileCache(redisClient, cfg.Pipeline.ProfileCacheTTL)
		velocityCache = redis.NewVelocityCache(redisClient)
		deviceCache = redis.NewDeviceCache(redisClient)
		historyCache = redis.NewHistoryCache(redisClient)
		redisChecker = redisClient
	}

	// Aggregator composes the four velocity/device/history
	// sources; falls back to no-history sourcing for whichever backing
	// service failed to connect, so a first-seen-user degradation path
	// covers both a cold cache and a down dependency.
	velSrc := aggregatorVelocitySource(velocityCache)
	devSrc := aggregatorDeviceSource(deviceCache)
	histSrc := aggregatorHistorySource(historyCache)
	blkSrc := aggregatorBlacklistSource(pgStore)
	if velocityCache == nil || deviceCache == nil || historyCache == nil || pgStore == nil {
		logger.Warn("aggregator running without full backing; some history checks will under-report")
	}
	agg := aggregator.New(velSrc, devSrc, histSrc, blkSrc)

	// Profile store with cache-through + circuit breaker.
	var profileStore *profile.Store
	if profileCache != nil && pgStore != nil {
		profileStore = profile.New(profileCache, pgStore, logger)
	} else {
		profileStore = profile.New(standalone.ProfileCache{}, standalone.RawStore{}, logger)
	}

	// Rule engine built from the configured catalog.
	registry, err := risk.NewRegistry(rules.BuildDefaultCatalog(cfg.Rules))
	if err != nil {
		logger.Fatal("invalid rule catalog", zap.Error(err))
	}
	ruleEngine := rules.New(registry, agg, logger)

	if cfg.GeoIP.DatabasePath != "" {
		resolver, err := geoip.Open(cfg.GeoIP.DatabasePath)
		if err != nil {
			logger.Warn("geoip database open failed; ip enrichment disabled", zap.Error(err))
		} else {
			defer resolver.Close()
			ruleEngine.SetGeoResolver(resolver)
			logger.Info("ip geolocation enrichment enabled",
				zap.String("path", cfg.GeoIP.DatabasePath), zap.String("type", resolver.DatabaseType()))
		}
	}

	// Model scorer.
	var modelScorer assessment.ModelScorer = disabledModelScorer{}
	if cfg.ML.Enabled {
		modelScorer = ml.New(ml.LoadJSONArtifacts, cfg.ML.ModelPath, logger)
	} else {
		logger.Info("ml scoring disabled by configuration; fusion will rely on rules alone")
	}

	// Alert sink: kafka when configured, a no-op sink in standalone mode.
	var alertSink assessment.AlertSink
	if cfg.Kafka.Enabled {
		alertSink = alert.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		logger.Info("alert emission via kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.AlertTopic))
	} else {
		alertSink = alert.NoopSink{}
		logger.Info("alert emission disabled; using no-op sink")
	}

	coordinator := assessment.New(profileStore, ruleEngine, modelScorer, agg, assessmentStore{pgStore}, alertSink, cfg.Pipeline.AssessmentDeadline, logger)

	assessHandler := handler.NewAssessHandler(coordinator)
	rulesHandler := handler.NewRulesHandler(registry)
	healthHandler := handler.NewHealthHandler(dbChecker, redisChecker, version)
	r := router.NewRouter(assessHandler, rulesHandler, healthHandler, cfg.Metrics.Path)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("stopped")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err == nil {
		zcfg.Level = level
	}
	return zcfg.Build()
}

// pingChecker adapts a plain ping func to handler.HealthChecker.
type pingChecker struct {
	ping func(ctx context.Context) error
}

func (p pingChecker) Ping(ctx context.Context) error { return p.ping(ctx) }

// disabledModelScorer leaves ml_score undefined for every assessment.
type disabledModelScorer struct{}

func (disabledModelScorer) Score(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile, inputs risk.FeatureInputs) *float64 {
	return nil
}

// assessmentStore adapts a possibly-nil *postgres.Store to
// assessment.AssessmentStore, failing persistence loudly rather than
// silently dropping assessments when no database is configured.
type assessmentStore struct {
	store *postgres.Store
}

func (a assessmentStore) SaveAssessment(ctx context.Context, fa risk.FraudAssessment) error {
	if a.store == nil {
		return fmt.Errorf("no database configured")
	}
	return a.store.SaveAssessment(ctx, fa)
}

func aggregatorVelocitySource(c *redis.VelocityCache) aggregator.VelocitySource {
	if c == nil {
		return standalone.VelocitySource{}
	}
	return c
}

func aggregatorDeviceSource(c *redis.DeviceCache) aggregator.DeviceSource {
	if c == nil {
		return standalone.DeviceSource{}
	}
	return c
}

func aggregatorHistorySource(c *redis.HistoryCache) aggregator.HistorySource {
	if c == nil {
		return standalone.HistorySource{}
	}
	return c
}

func aggregatorBlacklistSource(s *postgres.Store) aggregator.BlacklistSource {
	if s == nil {
		return standalone.BlacklistSource{}
	}
	return s
}
