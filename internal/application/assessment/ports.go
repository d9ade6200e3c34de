package assessment

import (
	"context"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// ProfileStore is the component-B port the coordinator depends on.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (profile risk.UserRiskProfile, unavailable bool, err error)
	Invalidate(ctx context.Context, userID string) error
}

// RuleEngine is the component-D port the coordinator depends on.
type RuleEngine interface {
	Evaluate(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile) ([]risk.FraudRuleResult, error)
}

// ModelScorer is the component-E port the coordinator depends on.
type ModelScorer interface {
	Score(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile, inputs risk.FeatureInputs) *float64
}

// AssessmentStore persists the completed, immutable assessment record.
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, a risk.FraudAssessment) error
}

// AlertSink is the fire-and-forget alert publisher.
type AlertSink interface {
	Publish(ctx context.Context, assessmentID, userID string, score float64, level risk.RiskLevel) error
}
