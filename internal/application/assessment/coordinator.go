package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

var (
	assessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_assessments_total",
		Help: "Completed assessments by action and risk level.",
	}, []string{"action", "risk_level"})

	assessmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_assessment_failures_total",
		Help: "Failed assessments by failure kind.",
	}, []string{"kind"})

	assessmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fraud_assessment_duration_seconds",
		Help:    "End-to-end assessment pipeline duration.",
		Buckets: prometheus.DefBuckets,
	})
)

// DefaultDeadline is the hard per-assessment deadline applied when
// the coordinator is constructed with a zero value.
const DefaultDeadline = 500 * time.Millisecond

// Coordinator implements the single public assess(request) -> response
// operation. It is reentrant and holds no per-request mutable
// state; every dependency is held by reference with the coordinator's
// own lifetime.
type Coordinator struct {
	profiles ProfileStore
	rules    RuleEngine
	model    ModelScorer
	agg      risk.Aggregator
	store    AssessmentStore
	alerts   AlertSink
	deadline time.Duration
	logger   *zap.Logger
}

// New constructs a Coordinator. deadline <= 0 falls back to DefaultDeadline.
func New(profiles ProfileStore, rules RuleEngine, model ModelScorer, agg risk.Aggregator, store AssessmentStore, alerts AlertSink, deadline time.Duration, logger *zap.Logger) *Coordinator {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		profiles: profiles,
		rules:    rules,
		model:    model,
		agg:      agg,
		store:    store,
		alerts:   alerts,
		deadline: deadline,
		logger:   logger,
	}
}

// Assess runs the full pipeline for one request. Any unhandled
// panic after input validation is recovered into a failure response
// rather than propagating, so every outcome still produces a structured
// log record carrying the correlation id.
func (c *Coordinator) Assess(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	correlationID := fmt.Sprintf("fraud_%d", start.Unix())

	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			c.logger.Error("unhandled panic in assessment pipeline",
				zap.Any("recover", r), zap.String("correlation_id", correlationID))
			resp = Response{
				Success:          false,
				Error:            fmt.Sprintf("internal error: %v", r),
				ProcessingTimeMs: elapsedMs(start),
				CorrelationID:    correlationID,
			}
		}
	}()

	if req.Transaction == nil {
		return Response{
			Success:          false,
			Error:            risk.ErrNoTransaction.Error(),
			ProcessingTimeMs: elapsedMs(start),
			CorrelationID:    correlationID,
		}
	}
	tx := *req.Transaction

	pipelineCtx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	profile, profileUnavailable, _ := c.profiles.Get(pipelineCtx, tx.UserID)

	var ruleResults []risk.FraudRuleResult
	var ruleErr error
	var mlScore *float64

	g, gctx := errgroup.WithContext(pipelineCtx)
	g.Go(func() error {
		results, err := c.rules.Evaluate(gctx, tx, profile)
		ruleResults = results
		ruleErr = err
		return nil
	})
	g.Go(func() error {
		inputs := c.featureInputs(gctx, tx, profile, correlationID)
		mlScore = c.model.Score(gctx, tx, profile, inputs)
		return nil
	})
	_ = g.Wait()

	if errors.Is(ruleErr, risk.ErrNoRuleResults) {
		c.logger.Warn("assessment deadline exceeded before any rule completed",
			zap.String("correlation_id", correlationID), zap.String("user_id", tx.UserID))
		sentry.CaptureException(risk.ErrAssessmentTimeout)
		assessmentFailures.WithLabelValues(string(risk.KindTimeout)).Inc()
		return Response{
			Success:          false,
			Error:            risk.ErrAssessmentTimeout.Error(),
			ProcessingTimeMs: elapsedMs(start),
			CorrelationID:    correlationID,
		}
	}

	// Past the deadline only the rules that completed are kept, and the
	// model score is dropped.
	if pipelineCtx.Err() != nil {
		mlScore = nil
	}

	finalScore := risk.Fuse(ruleResults, mlScore)
	level := risk.LevelOf(finalScore)
	action := risk.ActionOf(finalScore, ruleResults)

	assessment := risk.FraudAssessment{
		ID:                   uuid.New().String(),
		UserID:               tx.UserID,
		TransactionID:        tx.ID,
		Score:                finalScore,
		RiskLevel:            level,
		Rules:                ruleResults,
		MLScore:              mlScore,
		Action:               action,
		Reason:               risk.ReasonString(ruleResults, mlScore, finalScore, profileUnavailable),
		Confidence:           risk.Confidence(ruleResults, mlScore),
		AssessmentTimeMs:     elapsedMs(start),
		CreatedAt:            time.Now().UTC(),
		RequiresManualReview: action == risk.ActionManualReview,
	}

	// Persistence is never cancelled once begun; detach from the
	// per-request deadline so a slow store write still completes.
	persistCtx := context.WithoutCancel(ctx)
	if err := c.store.SaveAssessment(persistCtx, assessment); err != nil {
		c.logger.Error("persist assessment failed", zap.Error(err),
			zap.String("correlation_id", correlationID), zap.String("user_id", tx.UserID))
		sentry.CaptureException(err)
		assessmentFailures.WithLabelValues(string(risk.KindPersistenceFailure)).Inc()
		return Response{
			Success:          false,
			Error:            fmt.Sprintf("persistence failed: %v", err),
			ProcessingTimeMs: elapsedMs(start),
			CorrelationID:    correlationID,
		}
	}

	if err := c.profiles.Invalidate(persistCtx, tx.UserID); err != nil {
		c.logger.Warn("profile cache invalidate failed", zap.Error(err), zap.String("user_id", tx.UserID))
	}

	if level == risk.RiskHigh || level == risk.RiskCritical {
		alertCtx, alertCancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		if err := c.alerts.Publish(alertCtx, assessment.ID, tx.UserID, finalScore, level); err != nil {
			c.logger.Warn("alert emission failed", zap.Error(err), zap.String("assessment_id", assessment.ID))
		}
		alertCancel()
	}

	assessmentsTotal.WithLabelValues(string(action), string(level)).Inc()
	assessmentDuration.Observe(time.Since(start).Seconds())

	return Response{
		Success:          true,
		Assessment:       &assessment,
		ProcessingTimeMs: elapsedMs(start),
		CorrelationID:    correlationID,
	}
}

// featureInputs resolves the aggregator-derived new-geolocation and
// new-device booleans the model's feature vector needs; every
// aggregator lookup resolves before feature scaling begins. An
// aggregator failure here degrades to "not new" rather than failing
// the assessment.
func (c *Coordinator) featureInputs(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile, correlationID string) risk.FeatureInputs {
	var inputs risk.FeatureInputs

	locations, err := c.agg.TypicalLocations(ctx, tx.UserID)
	if err != nil {
		c.logger.Warn("feature extraction: typical locations lookup failed", zap.Error(err), zap.String("correlation_id", correlationID))
	} else {
		inputs.NewGeolocation = isNewGeolocation(tx.GeoLocation, locations)
	}

	known, err := c.agg.KnownDevices(ctx, tx.UserID)
	if err != nil {
		c.logger.Warn("feature extraction: known devices lookup failed", zap.Error(err), zap.String("correlation_id", correlationID))
	} else if _, ok := known[tx.DeviceFingerprint.Fingerprint]; !ok {
		inputs.NewDevice = true
	}

	return inputs
}

// isNewGeolocation reports whether loc is more than 1000km from every
// typical location, matching the GEOLOCATION_ANOMALY threshold.
// A user with no location history at all is treated as new.
func isNewGeolocation(loc risk.GeoLocation, locations []risk.LocationFrequency) bool {
	if len(locations) == 0 {
		return true
	}
	minDistance := -1.0
	for _, l := range locations {
		d := risk.DistanceKM(loc.Latitude, loc.Longitude, l.Latitude, l.Longitude)
		if minDistance < 0 || d < minDistance {
			minDistance = d
		}
	}
	return minDistance > 1000
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
