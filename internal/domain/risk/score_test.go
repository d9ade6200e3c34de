package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestRuleSum(t *testing.T) {
	results := []FraudRuleResult{
		{RuleName: "A", Score: 0.2},
		{RuleName: "B", Score: 0.1},
	}
	assert.InDelta(t, 0.3, RuleSum(results), 1e-9)
}

func TestFuseWithoutModelScore(t *testing.T) {
	results := []FraudRuleResult{{Score: 0.24}}
	assert.InDelta(t, 0.24, Fuse(results, nil), 1e-9)
}

func TestFuseWithModelScore(t *testing.T) {
	results := []FraudRuleResult{{Score: 0.30}}
	final := Fuse(results, ptr(0.95))
	assert.InDelta(t, 0.6*0.30+0.4*0.95, final, 1e-9)
}

func TestFuseClipsToUnitInterval(t *testing.T) {
	results := []FraudRuleResult{{Score: 1.0}}
	assert.Equal(t, 1.0, Fuse(results, ptr(1.0)))
}

func TestFuseMonotoneInMLScore(t *testing.T) {
	results := []FraudRuleResult{{Score: 0.3}}
	lo := Fuse(results, ptr(0.1))
	hi := Fuse(results, ptr(0.9))
	assert.Less(t, lo, hi)
}

func TestLevelOfBands(t *testing.T) {
	assert.Equal(t, RiskLow, LevelOf(0.0))
	assert.Equal(t, RiskLow, LevelOf(0.299))
	assert.Equal(t, RiskMedium, LevelOf(0.3))
	assert.Equal(t, RiskMedium, LevelOf(0.599))
	assert.Equal(t, RiskHigh, LevelOf(0.6))
	assert.Equal(t, RiskHigh, LevelOf(0.799))
	assert.Equal(t, RiskCritical, LevelOf(0.8))
	assert.Equal(t, RiskCritical, LevelOf(1.0))
}

func TestActionOfHighAndCritical(t *testing.T) {
	assert.Equal(t, ActionReject, ActionOf(0.8, nil))
	assert.Equal(t, ActionHold, ActionOf(0.6, nil))
}

func TestActionOfMediumWithStrongRule(t *testing.T) {
	results := []FraudRuleResult{{RuleName: "DEVICE_FINGERPRINT", Triggered: true, Score: 0.6}}
	assert.Equal(t, ActionManualReview, ActionOf(0.4, results))
}

func TestActionOfMediumWithoutStrongRule(t *testing.T) {
	results := []FraudRuleResult{{RuleName: "AMOUNT_ANOMALY", Triggered: true, Score: 0.2}}
	assert.Equal(t, ActionApprove, ActionOf(0.34, results))
}

func TestActionOfLowIsApprove(t *testing.T) {
	assert.Equal(t, ActionApprove, ActionOf(0.1, nil))
}

func TestReasonStringOrdering(t *testing.T) {
	results := []FraudRuleResult{
		{RuleName: "VELOCITY_CHECK", Triggered: true},
		{RuleName: "AMOUNT_ANOMALY", Triggered: false},
		{RuleName: "DEVICE_FINGERPRINT", Triggered: true},
	}
	reason := ReasonString(results, ptr(0.842), 0.55, false)
	assert.Equal(t, "Rules triggered: VELOCITY_CHECK, DEVICE_FINGERPRINT; ML score: 0.842; Final score: 0.550", reason)
}

func TestReasonStringNoTriggersNoML(t *testing.T) {
	reason := ReasonString(nil, nil, 0.0, false)
	assert.Equal(t, "Final score: 0.000", reason)
}

func TestReasonStringProfileUnavailablePrefix(t *testing.T) {
	reason := ReasonString(nil, nil, 0.7, true)
	assert.Equal(t, "profile_unavailable; Final score: 0.700", reason)
}

func TestConfidenceNoIndicators(t *testing.T) {
	assert.Equal(t, 0.5, Confidence(nil, nil))
}

func TestConfidenceSingleIndicatorRules(t *testing.T) {
	results := []FraudRuleResult{{Triggered: true, Score: 0.3}}
	assert.InDelta(t, 0.3, Confidence(results, nil), 1e-9)
}

func TestConfidenceSingleIndicatorML(t *testing.T) {
	assert.InDelta(t, 0.8, Confidence(nil, ptr(0.8)), 1e-9)
}

func TestConfidenceTwoIndicatorsAgreement(t *testing.T) {
	results := []FraudRuleResult{{Triggered: true, Score: 0.5}}
	// agreement = 1 - |0.5-0.5| = 1, mean = 0.5
	assert.InDelta(t, 0.5, Confidence(results, ptr(0.5)), 1e-9)
}

func TestConfidenceTwoIndicatorsDisagreement(t *testing.T) {
	results := []FraudRuleResult{{Triggered: true, Score: 0.1}}
	// agreement = 1 - |0.9-0.1| = 0.2, mean = 0.5 -> 0.1
	assert.InDelta(t, 0.1, Confidence(results, ptr(0.9)), 1e-9)
}

func TestStableSigmoidBounds(t *testing.T) {
	assert.InDelta(t, 0.5, StableSigmoid(0), 1e-9)
	assert.Greater(t, StableSigmoid(10), 0.99)
	assert.Less(t, StableSigmoid(-10), 0.01)
}
