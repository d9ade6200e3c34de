package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// ProfileCache is the key/value-with-TTL cache-through layer for
// UserRiskProfile snapshots. Key
// "user_risk_profile:{user_id}", TTL 300s.
type ProfileCache struct {
	client *Client
	ttl    time.Duration
}

// NewProfileCache creates a profile cache with the given TTL. A zero TTL
// falls back to the standard 300s.
func NewProfileCache(client *Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(userID string) string {
	return fmt.Sprintf("user_risk_profile:%s", userID)
}

type profileSnapshot struct {
	UserID                   string    `json:"user_id"`
	BaseScore                float64   `json:"base_score"`
	TransactionHistoryScore  float64   `json:"transaction_history_score"`
	AgeScore                 float64   `json:"age_score"`
	VelocityScore            float64   `json:"velocity_score"`
	VerificationLevel        string    `json:"verification_level"`
	DisputeRate              float64   `json:"dispute_rate"`
	TotalTransactions        int64     `json:"total_transactions"`
	TotalAmount              string    `json:"total_amount"`
	TotalAmountCurrency      string    `json:"total_amount_currency"`
	AverageTransactionAmount string    `json:"average_transaction_amount"`
	AverageCurrency          string    `json:"average_currency"`
	AccountAgeDays           int       `json:"account_age_days"`
	FailedAttempts24h        int       `json:"failed_attempts_24h"`
	RiskLevel                string    `json:"risk_level"`
	LastUpdated              time.Time `json:"last_updated"`
	Source                   string    `json:"source"`
}

func toSnapshot(p risk.UserRiskProfile) profileSnapshot {
	return profileSnapshot{
		UserID:                   p.UserID,
		BaseScore:                p.BaseScore,
		TransactionHistoryScore:  p.TransactionHistoryScore,
		AgeScore:                 p.AgeScore,
		VelocityScore:            p.VelocityScore,
		VerificationLevel:        string(p.VerificationLevel),
		DisputeRate:              p.DisputeRate,
		TotalTransactions:        p.TotalTransactions,
		TotalAmount:              p.TotalAmount.Amount.String(),
		TotalAmountCurrency:      p.TotalAmount.Currency,
		AverageTransactionAmount: p.AverageTransactionAmount.Amount.String(),
		AverageCurrency:          p.AverageTransactionAmount.Currency,
		AccountAgeDays:           p.AccountAgeDays,
		FailedAttempts24h:        p.FailedAttempts24h,
		RiskLevel:                string(p.RiskLevel),
		LastUpdated:              p.LastUpdated,
		Source:                   string(p.Source),
	}
}

func fromSnapshot(s profileSnapshot) risk.UserRiskProfile {
	total, _ := decimal.NewFromString(s.TotalAmount)
	avg, _ := decimal.NewFromString(s.AverageTransactionAmount)
	return risk.UserRiskProfile{
		UserID:                   s.UserID,
		BaseScore:                s.BaseScore,
		TransactionHistoryScore:  s.TransactionHistoryScore,
		AgeScore:                 s.AgeScore,
		VelocityScore:            s.VelocityScore,
		VerificationLevel:        risk.VerificationLevel(s.VerificationLevel),
		DisputeRate:              s.DisputeRate,
		TotalTransactions:        s.TotalTransactions,
		TotalAmount:              risk.Money{Amount: total, Currency: s.TotalAmountCurrency, Precision: 2},
		AverageTransactionAmount: risk.Money{Amount: avg, Currency: s.AverageCurrency, Precision: 2},
		AccountAgeDays:           s.AccountAgeDays,
		FailedAttempts24h:        s.FailedAttempts24h,
		RiskLevel:                risk.RiskLevel(s.RiskLevel),
		LastUpdated:              s.LastUpdated,
		Source:                   risk.ProfileSource(s.Source),
	}
}

// Get returns the cached profile, or (zero, false, nil) on a cache miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (risk.UserRiskProfile, bool, error) {
	raw, err := c.client.Get(ctx, profileKey(userID))
	if errors.Is(err, goredis.Nil) {
		return risk.UserRiskProfile{}, false, nil
	}
	if err != nil {
		return risk.UserRiskProfile{}, false, fmt.Errorf("profile cache get: %w", err)
	}

	var snap profileSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return risk.UserRiskProfile{}, false, fmt.Errorf("profile cache decode: %w", err)
	}
	return fromSnapshot(snap), true, nil
}

// Set writes the profile snapshot with the cache's standard TTL.
func (c *ProfileCache) Set(ctx context.Context, profile risk.UserRiskProfile) error {
	encoded, err := json.Marshal(toSnapshot(profile))
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, profileKey(profile.UserID), encoded, c.ttl)
}

// Invalidate removes the cached entry for a user.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profileKey(userID))
}
