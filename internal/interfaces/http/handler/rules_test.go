package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

func stubEvaluator(name string) risk.Evaluator {
	return func(ctx context.Context, agg risk.Aggregator, tx risk.Transaction, profile risk.UserRiskProfile, weight float64) risk.FraudRuleResult {
		return risk.FraudRuleResult{RuleName: name}
	}
}

func TestRulesListsCatalogEntries(t *testing.T) {
	reg, err := risk.NewRegistry([]risk.Rule{
		{Name: "VELOCITY_CHECK", Weight: 0.6, Enabled: true, ActionHint: risk.ActionHold, Evaluator: stubEvaluator("VELOCITY_CHECK")},
		{Name: "TIME_PATTERN", Weight: 0.4, Enabled: false, ActionHint: risk.ActionManualReview, Evaluator: stubEvaluator("TIME_PATTERN")},
	})
	require.NoError(t, err)

	h := NewRulesHandler(reg)
	rec := httptest.NewRecorder()
	h.Rules(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Rules []RulePatternResponse `json:"rules"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Rules, 2)
	assert.Equal(t, "VELOCITY_CHECK", body.Rules[0].Name)
	assert.Equal(t, "RULE", body.Rules[0].PatternType)
	assert.Equal(t, 0.6, body.Rules[0].Parameters["weight"])
	assert.Equal(t, string(risk.ActionHold), body.Rules[0].Parameters["action_hint"])
	assert.True(t, body.Rules[0].IsActive)
	assert.False(t, body.Rules[1].IsActive)
}
