package risk

import "github.com/shopspring/decimal"

// DefaultProfile is the synthesized snapshot for a user the authoritative
// store has never seen.
func DefaultProfile(userID string) UserRiskProfile {
	zero, _ := NewMoney(decimal.Zero, "USD", 2)
	return UserRiskProfile{
		UserID:                  userID,
		BaseScore:               0.7,
		AgeScore:                0.8,
		TransactionHistoryScore: 0.0,
		VerificationLevel:       VerificationNone,
		TotalAmount:             zero,
		AverageTransactionAmount: zero,
		RiskLevel:               RiskMedium,
		Source:                  ProfileSynthesized,
	}
}

// ProfileInputs are the raw fields the authoritative store yields for a
// known user, before derived scoring is applied.
type ProfileInputs struct {
	AccountAgeDays     int
	VerificationLevel  VerificationLevel
	TotalTransactions  int64
	TotalAmount        Money
	AverageAmount      Money
	FailedAttempts24h  int
	DisputeRate        float64
}

// DeriveProfile computes base_score, transaction_history_score, and
// age_score from raw store fields, and derives an overall
// risk_level from the resulting base_score.
func DeriveProfile(userID string, in ProfileInputs) UserRiskProfile {
	base := Clip01(0.5 + agePenalty(in.AccountAgeDays) + verificationDelta(in.VerificationLevel) + historyDelta(in.TotalTransactions))

	p := UserRiskProfile{
		UserID:                   userID,
		BaseScore:                base,
		TransactionHistoryScore:  transactionHistoryScore(in.TotalTransactions),
		AgeScore:                 ageScore(in.AccountAgeDays),
		VerificationLevel:        in.VerificationLevel,
		DisputeRate:              in.DisputeRate,
		TotalTransactions:        in.TotalTransactions,
		TotalAmount:              in.TotalAmount,
		AverageTransactionAmount: in.AverageAmount,
		AccountAgeDays:           in.AccountAgeDays,
		FailedAttempts24h:        in.FailedAttempts24h,
		Source:                   ProfileLoaded,
	}
	p.RiskLevel = riskLevelFromBaseScore(p.BaseScore)
	return p
}

func agePenalty(days int) float64 {
	switch {
	case days < 7:
		return 0.3
	case days < 30:
		return 0.2
	case days < 90:
		return 0.1
	default:
		return 0
	}
}

func verificationDelta(level VerificationLevel) float64 {
	switch level {
	case VerificationNone:
		return 0.3
	case VerificationBasic:
		return 0.1
	case VerificationEnhanced:
		return -0.1
	case VerificationPremium:
		return -0.2
	default:
		return 0.1
	}
}

func historyDelta(totalTxns int64) float64 {
	switch {
	case totalTxns == 0:
		return 0.2
	case totalTxns < 10:
		return 0.1
	case totalTxns > 100:
		return -0.1
	default:
		return 0
	}
}

func transactionHistoryScore(totalTxns int64) float64 {
	switch {
	case totalTxns == 0:
		return 0.8
	case totalTxns < 10:
		return 0.6
	case totalTxns < 50:
		return 0.3
	default:
		return 0.1
	}
}

func ageScore(days int) float64 {
	switch {
	case days < 7:
		return 0.9
	case days < 30:
		return 0.7
	case days < 90:
		return 0.4
	case days < 365:
		return 0.2
	default:
		return 0.1
	}
}

// riskLevelFromBaseScore classifies a profile's overall risk using the
// same band edges as the assessment's final-score classification, so a
// profile's risk_level remains comparable to an assessment's.
func riskLevelFromBaseScore(baseScore float64) RiskLevel {
	return LevelOf(baseScore)
}
