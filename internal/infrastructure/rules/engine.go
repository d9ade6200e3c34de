// Package rules implements the concurrent rule engine: dispatch of the
// registry's enabled evaluators against one transaction, with stable
// registration-order collation regardless of completion order.
package rules

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// GeoResolver enriches a transaction's country/city from its device IP
// address. Optional: a nil resolver leaves GeoLocation as submitted.
type GeoResolver interface {
	Resolve(ip string) (country, city string, err error)
}

// Engine dispatches a static, read-only-after-startup registry of rules
// concurrently for each incoming transaction.
type Engine struct {
	registry *risk.Registry
	agg      risk.Aggregator
	logger   *zap.Logger
	geo      GeoResolver
}

// New constructs an Engine over the given registry and aggregator.
func New(registry *risk.Registry, agg risk.Aggregator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, agg: agg, logger: logger}
}

// SetGeoResolver attaches an IP-based country/city resolver.
// Never required for the geolocation-anomaly rule itself,
// which operates purely on coordinates; this only fills in the
// diagnostic country/city fields when a transaction arrives without them.
func (e *Engine) SetGeoResolver(geo GeoResolver) {
	e.geo = geo
}

// Evaluate runs every enabled rule concurrently against (tx, profile)
// and returns their results in registration order, independent of
// completion order. An individual evaluator panic or error yields a
// non-triggered result for that rule only; it never fails the whole
// evaluation. If ctx's deadline expires before any rule completes, the
// caller gets risk.ErrNoRuleResults back alongside the all-"cancelled"
// result set. A rule that returns only after ctx is done counts as
// cancelled.
func (e *Engine) Evaluate(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile) ([]risk.FraudRuleResult, error) {
	if e.geo != nil && tx.GeoLocation.Country == "" && tx.DeviceFingerprint.IPAddress != "" {
		if country, city, err := e.geo.Resolve(tx.DeviceFingerprint.IPAddress); err == nil {
			tx.GeoLocation.Country = country
			tx.GeoLocation.City = city
		} else {
			e.logger.Warn("ip geolocation enrichment failed", zap.Error(err), zap.String("ip", tx.DeviceFingerprint.IPAddress))
		}
	}

	enabled := e.registry.Enabled()
	results := make([]risk.FraudRuleResult, len(enabled))
	completed := make([]bool, len(enabled))

	// mu guards results/completed: on deadline expiry the collation below
	// runs while slow evaluator goroutines may still be writing.
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range enabled {
		i, rule := i, rule
		g.Go(func() error {
			start := time.Now()
			result := e.runOne(gctx, rule, tx, profile)
			result.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
			mu.Lock()
			if ctx.Err() == nil {
				results[i] = result
				completed[i] = true
			}
			mu.Unlock()
			return nil
		})
	}

	waitDone := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-ctx.Done():
		e.logger.Warn("rule evaluation deadline exceeded, proceeding with partial results")
	}

	out := make([]risk.FraudRuleResult, 0, len(enabled))
	anyCompleted := false
	mu.Lock()
	for i, rule := range enabled {
		if completed[i] {
			out = append(out, results[i])
			anyCompleted = true
			continue
		}
		out = append(out, risk.FraudRuleResult{RuleName: rule.Name, Triggered: false, Score: 0, Details: map[string]any{"error": "cancelled"}})
	}
	mu.Unlock()

	if !anyCompleted && len(enabled) > 0 {
		return out, risk.ErrNoRuleResults
	}
	return out, nil
}

// runOne evaluates a single rule, converting a panic into the standard
// non-triggered failure result rather than letting it escape.
func (e *Engine) runOne(ctx context.Context, rule risk.Rule, tx risk.Transaction, profile risk.UserRiskProfile) (result risk.FraudRuleResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rule evaluator panicked", zap.String("rule", rule.Name), zap.Any("recover", r))
			result = risk.FraudRuleResult{RuleName: rule.Name, Triggered: false, Score: 0, Details: map[string]any{"error": "panic during evaluation"}}
		}
	}()
	return rule.Evaluator(ctx, e.agg, tx, profile, rule.Weight)
}
