package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// RuleSum returns the sum of already-weighted rule scores. Bounded above
// by the catalog's weight sum (1.0 in the default catalog).
func RuleSum(results []FraudRuleResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum
}

// Fuse combines the rule sum with an optional model score:
// final = 0.6*rule_sum + 0.4*ml_score when ml_score is defined, else
// final = rule_sum. The result is clipped to [0,1].
func Fuse(results []FraudRuleResult, mlScore *float64) float64 {
	ruleSum := RuleSum(results)
	if mlScore == nil {
		return Clip01(ruleSum)
	}
	return Clip01(0.6*ruleSum + 0.4*(*mlScore))
}

// LevelOf maps a final score to its discrete risk level.
func LevelOf(finalScore float64) RiskLevel {
	switch {
	case finalScore >= 0.8:
		return RiskCritical
	case finalScore >= 0.6:
		return RiskHigh
	case finalScore >= 0.3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// anyWeightedRuleAbove reports whether any triggered rule's weighted
// score exceeds threshold.
func anyWeightedRuleAbove(results []FraudRuleResult, threshold float64) bool {
	for _, r := range results {
		if r.Triggered && r.Score > threshold {
			return true
		}
	}
	return false
}

// ActionOf resolves the disposition: REJECT at or above 0.8, HOLD at or
// above 0.6, and in the medium band MANUAL_REVIEW only when a triggered
// rule's weighted score exceeds 0.5.
func ActionOf(finalScore float64, results []FraudRuleResult) FraudAction {
	switch {
	case finalScore >= 0.8:
		return ActionReject
	case finalScore >= 0.6:
		return ActionHold
	case finalScore >= 0.3:
		if anyWeightedRuleAbove(results, 0.5) {
			return ActionManualReview
		}
		return ActionApprove
	default:
		return ActionApprove
	}
}

// ReasonString builds the deterministic, "; "-separated reason string.
// profileUnavailable prepends a "profile_unavailable" segment when the
// profile store degraded to the synthesized default due to a genuine
// store failure rather than a first-encounter miss.
func ReasonString(results []FraudRuleResult, mlScore *float64, finalScore float64, profileUnavailable bool) string {
	var parts []string
	if profileUnavailable {
		parts = append(parts, "profile_unavailable")
	}

	var triggered []string
	for _, r := range results {
		if r.Triggered {
			triggered = append(triggered, r.RuleName)
		}
	}
	if len(triggered) > 0 {
		parts = append(parts, "Rules triggered: "+strings.Join(triggered, ", "))
	}

	if mlScore != nil {
		parts = append(parts, fmt.Sprintf("ML score: %.3f", *mlScore))
	}

	parts = append(parts, fmt.Sprintf("Final score: %.3f", finalScore))

	return strings.Join(parts, "; ")
}

// Confidence computes the agreement-based confidence: the mean of the
// available indicators (triggered-rule sum, model score) scaled by how
// closely they agree, or 0.5 when neither is available.
func Confidence(results []FraudRuleResult, mlScore *float64) float64 {
	var indicators []float64

	var triggeredSum float64
	for _, r := range results {
		if r.Triggered {
			triggeredSum += r.Score
		}
	}
	if triggeredSum > 0 {
		indicators = append(indicators, triggeredSum)
	}
	if mlScore != nil {
		indicators = append(indicators, *mlScore)
	}

	switch len(indicators) {
	case 0:
		return 0.5
	case 1:
		return Clip01(indicators[0])
	default:
		sorted := append([]float64(nil), indicators...)
		sort.Float64s(sorted)
		lo, hi := sorted[0], sorted[len(sorted)-1]
		agreement := 1 - (hi - lo)
		mean := (indicators[0] + indicators[1]) / 2
		return Clip01(mean * agreement)
	}
}

// StableSigmoid is the logistic function 1/(1+exp(-s)) used to map an
// anomaly scorer's raw decision score into (0,1). math.Exp is used
// directly; there is no reason to hand-roll a series approximation.
func StableSigmoid(s float64) float64 {
	return 1 / (1 + math.Exp(-s))
}
