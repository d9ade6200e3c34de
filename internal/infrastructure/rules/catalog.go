package rules

import (
	"github.com/mdeadwiler/riskassess/internal/domain/risk"
	"github.com/mdeadwiler/riskassess/internal/pkg/config"
)

// BuildDefaultCatalog builds the default five-rule catalog from
// configuration: weights, enablement flags, and velocity windows are all
// operator-tunable; the evaluator implementations and registration order
// are not.
func BuildDefaultCatalog(cfg config.RulesConfig) []risk.Rule {
	windows := make([]VelocityWindow, 0, len(cfg.VelocityWindows))
	for _, w := range cfg.VelocityWindows {
		windows = append(windows, VelocityWindow{
			Name:            w.Name,
			WindowMinutes:   w.WindowMinutes,
			MaxTransactions: w.MaxTransactions,
			MaxAmount:       w.MaxAmount,
		})
	}
	if len(windows) == 0 {
		windows = DefaultVelocityWindows
	}

	return []risk.Rule{
		{
			Name:       risk.RuleVelocityCheck,
			Weight:     cfg.VelocityWeight,
			Enabled:    cfg.VelocityEnabled,
			ActionHint: risk.ActionHold,
			Evaluator:  VelocityEvaluator(windows),
		},
		{
			Name:       risk.RuleAmountAnomaly,
			Weight:     cfg.AmountAnomalyWeight,
			Enabled:    cfg.AmountAnomalyEnabled,
			ActionHint: risk.ActionManualReview,
			Evaluator:  AmountAnomalyEvaluator(),
		},
		{
			Name:       risk.RuleGeolocationAnomaly,
			Weight:     cfg.GeolocationWeight,
			Enabled:    cfg.GeolocationEnabled,
			ActionHint: risk.ActionHold,
			Evaluator:  GeolocationAnomalyEvaluator(),
		},
		{
			Name:       risk.RuleDeviceFingerprint,
			Weight:     cfg.DeviceWeight,
			Enabled:    cfg.DeviceEnabled,
			ActionHint: risk.ActionManualReview,
			Evaluator:  DeviceFingerprintEvaluator(),
		},
		{
			Name:       risk.RuleTimePattern,
			Weight:     cfg.TimePatternWeight,
			Enabled:    cfg.TimePatternEnabled,
			ActionHint: risk.ActionManualReview,
			Evaluator:  TimePatternEvaluator(),
		},
	}
}
