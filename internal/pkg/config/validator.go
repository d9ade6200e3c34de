package config

import (
	"errors"
	"math"
)

// Validate checks structural invariants the loaded configuration must
// hold before the engine starts, including invariant 2: the
// default rule catalog's weights must sum to 1.0.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	weightSum := c.Rules.VelocityWeight + c.Rules.AmountAnomalyWeight +
		c.Rules.GeolocationWeight + c.Rules.DeviceWeight + c.Rules.TimePatternWeight
	if math.Abs(weightSum-1.0) > 1e-9 {
		return errors.New("rule weights must sum to 1.0")
	}

	if c.Rules.MediumThreshold < 0 || c.Rules.MediumThreshold > 1 {
		return errors.New("medium_threshold must be between 0 and 1")
	}
	if c.Rules.HighThreshold < 0 || c.Rules.HighThreshold > 1 {
		return errors.New("high_threshold must be between 0 and 1")
	}
	if c.Rules.CriticalThreshold < 0 || c.Rules.CriticalThreshold > 1 {
		return errors.New("critical_threshold must be between 0 and 1")
	}
	if c.Rules.MediumThreshold >= c.Rules.HighThreshold {
		return errors.New("medium_threshold must be less than high_threshold")
	}
	if c.Rules.HighThreshold >= c.Rules.CriticalThreshold {
		return errors.New("high_threshold must be less than critical_threshold")
	}

	if c.Pipeline.AssessmentDeadline <= 0 {
		return errors.New("assessment_deadline must be positive")
	}

	return nil
}
