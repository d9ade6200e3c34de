package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregator is the historical-aggregator port that rule
// evaluators consult. Implementations live in infrastructure; this
// package only depends on the contract.
type Aggregator interface {
	CountInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (int, error)
	AmountSumInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (decimal.Decimal, error)
	TypicalLocations(ctx context.Context, userID string) ([]LocationFrequency, error)
	TypicalHours(ctx context.Context, userID string) (map[int]int, error)
	KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error)
	IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error)
}

// Evaluator is a deterministic rule function. It is handed the rule's
// catalog weight so its returned FraudRuleResult.Score can be
// pre-multiplied by that weight.
type Evaluator func(ctx context.Context, agg Aggregator, tx Transaction, profile UserRiskProfile, weight float64) FraudRuleResult

// Rule is one entry of the rule catalog: a name, weight, enablement
// flag, the action it hints at when triggered, and the evaluator that
// implements it.
type Rule struct {
	Name       string
	Weight     float64
	Enabled    bool
	ActionHint FraudAction
	Evaluator  Evaluator
}

// FailedResult builds the standard non-fatal failure result for an
// evaluator that could not complete.
func FailedResult(name string, err error) FraudRuleResult {
	return FraudRuleResult{
		RuleName:  name,
		Triggered: false,
		Score:     0,
		Details:   map[string]any{"error": err.Error()},
	}
}
