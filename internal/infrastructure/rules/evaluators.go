package rules

import (
	"context"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// VelocityWindow is one (duration, max-count, max-amount) triple the
// velocity evaluator checks.
type VelocityWindow struct {
	Name            string
	WindowMinutes   int
	MaxTransactions int
	MaxAmount       float64 // 0 means "no amount limit configured"
}

// DefaultVelocityWindows is the catalog's default hourly/daily/weekly triple.
var DefaultVelocityWindows = []VelocityWindow{
	{Name: "hourly", WindowMinutes: 60, MaxTransactions: 10},
	{Name: "daily", WindowMinutes: 1440, MaxTransactions: 50, MaxAmount: 10000},
	{Name: "weekly", WindowMinutes: 10080, MaxTransactions: 200, MaxAmount: 50000},
}

// VelocityEvaluator builds the VELOCITY_CHECK evaluator over the given windows.
func VelocityEvaluator(windows []VelocityWindow) risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		now := tx.Timestamp
		details := map[string]any{}
		var rawScore float64
		triggered := false

		for _, w := range windows {
			count, err := agg.CountInWindow(ctx, tx.UserID, w.WindowMinutes, now)
			if err != nil {
				return risk.FailedResult(risk.RuleVelocityCheck, err)
			}
			windowDetail := map[string]any{
				"count":            count,
				"max_transactions": w.MaxTransactions,
			}
			countExceeded := count > w.MaxTransactions
			if countExceeded {
				triggered = true
				rawScore = maxFloat(rawScore, 0.8)
			}
			windowDetail["count_exceeded"] = countExceeded

			if w.MaxAmount > 0 {
				sum, err := agg.AmountSumInWindow(ctx, tx.UserID, w.WindowMinutes, now)
				if err != nil {
					return risk.FailedResult(risk.RuleVelocityCheck, err)
				}
				sumFloat, _ := sum.Float64()
				amountExceeded := sumFloat > w.MaxAmount
				windowDetail["amount_sum"] = sumFloat
				windowDetail["max_amount"] = w.MaxAmount
				windowDetail["amount_exceeded"] = amountExceeded
				if amountExceeded {
					triggered = true
					rawScore = maxFloat(rawScore, 0.9)
				}
			}
			details[w.Name] = windowDetail
		}

		return risk.FraudRuleResult{
			RuleName:  risk.RuleVelocityCheck,
			Triggered: triggered,
			Score:     rawScore * weight,
			Details:   details,
		}
	}
}

// AmountAnomalyEvaluator flags transactions that deviate sharply from
// the user's average amount.
func AmountAnomalyEvaluator() risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		if profile.TotalTransactions <= 0 || profile.AverageTransactionAmount.IsZero() {
			return risk.FraudRuleResult{
				RuleName: risk.RuleAmountAnomaly,
				Details:  map[string]any{"status": "insufficient_history"},
			}
		}

		current, _ := tx.Amount.Amount.Float64()
		avg, _ := profile.AverageTransactionAmount.Amount.Float64()
		d := risk.DeviationRatio(current, avg)

		details := map[string]any{
			"current":   current,
			"average":   avg,
			"d":         d,
			"threshold": 3.0,
		}

		if d > 3 {
			raw := minFloat(0.8, d/5)
			return risk.FraudRuleResult{RuleName: risk.RuleAmountAnomaly, Triggered: true, Score: raw * weight, Details: details}
		}
		return risk.FraudRuleResult{RuleName: risk.RuleAmountAnomaly, Triggered: false, Score: 0, Details: details}
	}
}

// GeolocationAnomalyEvaluator flags transactions originating far from
// every typical location.
func GeolocationAnomalyEvaluator() risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		locations, err := agg.TypicalLocations(ctx, tx.UserID)
		if err != nil {
			return risk.FailedResult(risk.RuleGeolocationAnomaly, err)
		}
		if len(locations) == 0 {
			return risk.FraudRuleResult{
				RuleName: risk.RuleGeolocationAnomaly,
				Details:  map[string]any{"status": "no_location_history"},
			}
		}

		minDistance := -1.0
		for _, loc := range locations {
			d := risk.DistanceKM(tx.GeoLocation.Latitude, tx.GeoLocation.Longitude, loc.Latitude, loc.Longitude)
			if minDistance < 0 || d < minDistance {
				minDistance = d
			}
		}

		details := map[string]any{
			"latitude":     tx.GeoLocation.Latitude,
			"longitude":    tx.GeoLocation.Longitude,
			"country":      tx.GeoLocation.Country,
			"min_distance": minDistance,
			"threshold":    1000.0,
		}

		if minDistance > 1000 {
			raw := minFloat(0.7, minDistance/5000)
			return risk.FraudRuleResult{RuleName: risk.RuleGeolocationAnomaly, Triggered: true, Score: raw * weight, Details: details}
		}
		return risk.FraudRuleResult{RuleName: risk.RuleGeolocationAnomaly, Triggered: false, Score: 0, Details: details}
	}
}

// DeviceFingerprintEvaluator flags unknown devices, scoring higher when
// the fingerprint is also blacklisted.
func DeviceFingerprintEvaluator() risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		known, err := agg.KnownDevices(ctx, tx.UserID)
		if err != nil {
			return risk.FailedResult(risk.RuleDeviceFingerprint, err)
		}
		_, isKnown := known[tx.DeviceFingerprint.Fingerprint]

		blacklisted, err := agg.IsDeviceBlacklisted(ctx, tx.DeviceFingerprint.Fingerprint)
		if err != nil {
			return risk.FailedResult(risk.RuleDeviceFingerprint, err)
		}

		details := map[string]any{
			"fingerprint":  tx.DeviceFingerprint.Fingerprint,
			"known":        isKnown,
			"known_count":  len(known),
			"blacklisted":  blacklisted,
		}

		if isKnown {
			return risk.FraudRuleResult{RuleName: risk.RuleDeviceFingerprint, Triggered: false, Score: 0, Details: details}
		}

		raw := 0.5
		if blacklisted {
			raw = 1.0
		}
		return risk.FraudRuleResult{RuleName: risk.RuleDeviceFingerprint, Triggered: true, Score: raw * weight, Details: details}
	}
}

// TimePatternEvaluator flags transactions at hours the user rarely
// transacts in.
func TimePatternEvaluator() risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		hours, err := agg.TypicalHours(ctx, tx.UserID)
		if err != nil {
			return risk.FailedResult(risk.RuleTimePattern, err)
		}
		if len(hours) == 0 {
			return risk.FraudRuleResult{
				RuleName: risk.RuleTimePattern,
				Details:  map[string]any{"status": "no_transaction_history"},
			}
		}

		currentHour := risk.HourOfDay(tx.Timestamp)
		total := 0
		for _, c := range hours {
			total += c
		}
		freq := hours[currentHour]
		p := 0.0
		if total > 0 {
			p = float64(freq) / float64(total)
		}

		details := map[string]any{
			"hour":        currentHour,
			"frequency":   freq,
			"total":       total,
			"probability": p,
			"threshold":   0.05,
		}

		if p < 0.05 {
			return risk.FraudRuleResult{RuleName: risk.RuleTimePattern, Triggered: true, Score: 0.4 * weight, Details: details}
		}
		return risk.FraudRuleResult{RuleName: risk.RuleTimePattern, Triggered: false, Score: 0, Details: details}
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
