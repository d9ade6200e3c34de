package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFraudInvestigationLifecycle(t *testing.T) {
	inv := NewFraudInvestigation("inv-1", "user-1", "assess-1", RiskHigh)
	assert.True(t, inv.IsOpen())
	assert.Equal(t, InvestigationOpen, inv.InvestigationStatus)

	require.NoError(t, inv.Assign("analyst-1"))
	assert.Equal(t, "analyst-1", inv.AssignedTo)
	assert.Equal(t, InvestigationInProgress, inv.InvestigationStatus)
	assert.True(t, inv.IsOpen())

	inv.AddNote("analyst-1", "device fingerprint matches prior case")
	require.Len(t, inv.Notes, 1)
	assert.Equal(t, "analyst-1", inv.Notes[0].Author)

	inv.AddAssessment("assess-2")
	assert.Equal(t, []string{"assess-1", "assess-2"}, inv.AssessmentIDs)

	inv.Escalate("velocity pattern across accounts")
	assert.Equal(t, RiskCritical, inv.Priority)
	assert.Equal(t, InvestigationEscalated, inv.InvestigationStatus)
	require.Len(t, inv.Notes, 2)
	assert.Contains(t, inv.Notes[1].Content, "escalated")

	assert.ErrorIs(t, inv.Close(), ErrInvestigationNotResolved)

	require.NoError(t, inv.Resolve("analyst-1", "confirmed fraud", "account suspended"))
	assert.Equal(t, InvestigationResolved, inv.InvestigationStatus)
	assert.Equal(t, "analyst-1", inv.ResolvedBy)
	assert.NotNil(t, inv.ResolvedAt)
	assert.ErrorIs(t, inv.Assign("analyst-2"), ErrInvestigationClosed)

	require.NoError(t, inv.Close())
	assert.Equal(t, InvestigationClosed, inv.InvestigationStatus)
	assert.False(t, inv.IsOpen())
	assert.True(t, inv.IsClosed())
	assert.NotNil(t, inv.ClosedAt)
	assert.ErrorIs(t, inv.Resolve("analyst-2", "", ""), ErrInvestigationClosed)
}

func TestNewFraudAlertFromAssessment(t *testing.T) {
	assessment := FraudAssessment{
		ID:        "assess-1",
		UserID:    "user-1",
		Score:     0.85,
		RiskLevel: RiskCritical,
		Action:    ActionReject,
		Reason:    "Final score: 0.850",
	}
	alert := NewFraudAlertFromAssessment(assessment, "alert-1")
	assert.Equal(t, "alert-1", alert.ID)
	assert.Equal(t, "assess-1", alert.AssessmentID)
	assert.Equal(t, RiskCritical, alert.Severity)
	assert.Equal(t, 0.85, alert.Metadata["score"])
	assert.Equal(t, ActionReject, alert.Metadata["action"])
}
