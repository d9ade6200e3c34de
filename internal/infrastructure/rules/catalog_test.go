package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
	"github.com/mdeadwiler/riskassess/internal/pkg/config"
)

func TestBuildDefaultCatalogFormsValidRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	catalog := BuildDefaultCatalog(cfg.Rules)
	require.Len(t, catalog, 5)

	reg, err := risk.NewRegistry(catalog)
	require.NoError(t, err)
	assert.Len(t, reg.Enabled(), 5)

	names := make([]string, len(reg.All()))
	for i, r := range reg.All() {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		risk.RuleVelocityCheck,
		risk.RuleAmountAnomaly,
		risk.RuleGeolocationAnomaly,
		risk.RuleDeviceFingerprint,
		risk.RuleTimePattern,
	}, names)
}

func TestBuildDefaultCatalogFallsBackToDefaultWindows(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.VelocityWindows = nil
	catalog := BuildDefaultCatalog(cfg.Rules)
	require.NotEmpty(t, catalog)
	assert.Equal(t, risk.RuleVelocityCheck, catalog[0].Name)
}
