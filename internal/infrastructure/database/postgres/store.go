package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// Store is the authoritative relational store backing the profile
// lookup, device blacklist check, and insert-only assessment persistence.
type Store struct {
	db *gorm.DB
}

// New wraps an already-connected *gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetProfileInputs loads the raw fields the profile store derives scores
// from. The second return is false if the user has never been seen.
func (s *Store) GetProfileInputs(ctx context.Context, userID string) (risk.ProfileInputs, bool, error) {
	var user UserModel
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return risk.ProfileInputs{}, false, nil
	}
	if err != nil {
		return risk.ProfileInputs{}, false, fmt.Errorf("load user: %w", err)
	}

	var stats UserTransactionStatsModel
	err = s.db.WithContext(ctx).First(&stats, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A user row without stats yet is still a known user; treat the
		// stats as all-zero rather than as "unknown user".
		stats = UserTransactionStatsModel{UserID: userID, Currency: "USD"}
	} else if err != nil {
		return risk.ProfileInputs{}, false, fmt.Errorf("load user stats: %w", err)
	}

	total, _ := decimal.NewFromString(stats.TotalAmount)
	avg, _ := decimal.NewFromString(stats.AvgAmount)
	currency := stats.Currency
	if currency == "" {
		currency = "USD"
	}

	totalMoney, _ := risk.NewMoney(total, currency, 2)
	avgMoney, _ := risk.NewMoney(avg, currency, 2)

	return risk.ProfileInputs{
		AccountAgeDays:    int(time.Since(user.CreatedAt).Hours() / 24),
		VerificationLevel: risk.VerificationLevel(user.VerificationLevel),
		TotalTransactions: stats.TotalTransactions,
		TotalAmount:       totalMoney,
		AverageAmount:     avgMoney,
		FailedAttempts24h: stats.FailedAttempts24h,
		DisputeRate:       stats.DisputeRate,
	}, true, nil
}

// IsDeviceBlacklisted queries the device_blacklist table.
func (s *Store) IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	var row DeviceBlacklistModel
	err := s.db.WithContext(ctx).First(&row, "fingerprint = ? AND active = ?", fingerprint, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return true, nil
}

// CountInWindow counts a user's transactions with timestamps in
// [since, until] directly against the transactions table. The aggregator
// does not call it: velocity counts and sums come from the Redis velocity
// cache, and the store has no amount-sum query.
func (s *Store) CountInWindow(ctx context.Context, userID string, since, until time.Time) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&TransactionModel{}).
		Where("user_id = ? AND timestamp BETWEEN ? AND ?", userID, since, until).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(count), nil
}

// SaveAssessment persists a completed FraudAssessment (insert-only).
func (s *Store) SaveAssessment(ctx context.Context, a risk.FraudAssessment) error {
	rulesJSON, err := json.Marshal(a.Rules)
	if err != nil {
		return fmt.Errorf("encode rule results: %w", err)
	}

	model := FraudAssessmentModel{
		ID:                   a.ID,
		UserID:               a.UserID,
		TransactionID:        a.TransactionID,
		Score:                a.Score,
		RiskLevel:            string(a.RiskLevel),
		Rules:                string(rulesJSON),
		MLScore:              a.MLScore,
		Action:               string(a.Action),
		Reason:               a.Reason,
		Confidence:           a.Confidence,
		AssessmentTimeMs:     a.AssessmentTimeMs,
		RequiresManualReview: a.RequiresManualReview,
		CreatedAt:            a.CreatedAt,
		ReviewedBy:           a.ReviewedBy,
		ReviewedAt:           a.ReviewedAt,
		ReviewNotes:          a.ReviewNotes,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("persist assessment: %w", err)
	}
	return nil
}

// Statistics computes the periodic reporting aggregate (FraudStatistics)
// over a window of persisted assessments. gonum/stat.Mean backs the
// average_score computation; this is a read-only reporting query, never
// part of the per-request pipeline.
func (s *Store) Statistics(ctx context.Context, start, end time.Time) (risk.FraudStatistics, error) {
	var models []FraudAssessmentModel
	if err := s.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", start, end).
		Find(&models).Error; err != nil {
		return risk.FraudStatistics{}, fmt.Errorf("load assessments: %w", err)
	}

	out := risk.FraudStatistics{PeriodStart: start, PeriodEnd: end, TotalAssessments: int64(len(models))}
	if len(models) == 0 {
		return out, nil
	}

	scores := make([]float64, len(models))
	for i, m := range models {
		scores[i] = m.Score
		switch risk.FraudAction(m.Action) {
		case risk.ActionApprove:
			out.ApprovedCount++
		case risk.ActionReject:
			out.RejectedCount++
		case risk.ActionManualReview:
			out.ManualReviewCount++
		}
		if risk.RiskLevel(m.RiskLevel) == risk.RiskHigh || risk.RiskLevel(m.RiskLevel) == risk.RiskCritical {
			out.HighRiskTransactions++
		}
	}
	out.AverageScore = stat.Mean(scores, nil)
	return out, nil
}
