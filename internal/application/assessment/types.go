// Package assessment implements the assessment coordinator: pipeline
// orchestration, score fusion, level/action resolution, persistence,
// and alerting, behind the single public Assess operation.
package assessment

import (
	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// Request is the inbound FraudDetectionRequest. WithdrawalRequest
// is reserved; only transactional assessment is implemented.
type Request struct {
	UserID          string
	Transaction     *risk.Transaction
	Context         map[string]any
	ForceAssessment bool
}

// Response is the outbound FraudDetectionResponse.
type Response struct {
	Success          bool
	Assessment       *risk.FraudAssessment
	Error            string
	ProcessingTimeMs float64
	CorrelationID    string
}
