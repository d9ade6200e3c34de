// Package risk holds the domain types and pure scoring logic for the
// fraud risk assessment engine: transactions, risk profiles, rule
// results, and the assessment record they combine into.
package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the kinds of transaction the engine will score.
type TransactionType string

const (
	TransactionPayment    TransactionType = "PAYMENT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionRefund     TransactionType = "REFUND"
)

// VerificationLevel is the user's identity-verification tier.
type VerificationLevel string

const (
	VerificationNone     VerificationLevel = "NONE"
	VerificationBasic    VerificationLevel = "BASIC"
	VerificationEnhanced VerificationLevel = "ENHANCED"
	VerificationPremium  VerificationLevel = "PREMIUM"
)

// RiskLevel is the discrete band a final score falls into.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// FraudAction is the operational disposition of an assessment.
type FraudAction string

const (
	ActionApprove      FraudAction = "APPROVE"
	ActionHold         FraudAction = "HOLD"
	ActionReject       FraudAction = "REJECT"
	ActionManualReview FraudAction = "MANUAL_REVIEW"
)

// Money is an immutable monetary amount. NewMoney does not check the
// amount's sign, and zero amounts are used for empty profile totals;
// precision is the number of decimal places the amount was recorded at.
type Money struct {
	Amount    decimal.Decimal
	Currency  string
	Precision int
}

// NewMoney constructs a Money, validating ISO-4217-shaped currency and precision.
func NewMoney(amount decimal.Decimal, currency string, precision int) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	if precision < 0 || precision > 8 {
		return Money{}, ErrInvalidPrecision
	}
	return Money{Amount: amount, Currency: currency, Precision: precision}, nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// GeoLocation is a geographic point with required country.
type GeoLocation struct {
	Latitude  float64
	Longitude float64
	Country   string
	City      string
	Region    string
}

// Valid reports whether the coordinates lie within their legal bounds.
func (g GeoLocation) Valid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 && g.Longitude >= -180 && g.Longitude <= 180
}

// DeviceFingerprint identifies the originating device. Identity is the
// fingerprint alone; the remaining fields are diagnostic context.
type DeviceFingerprint struct {
	Fingerprint       string
	UserAgent         string
	IPAddress         string
	ScreenResolution  string
	Timezone          string
	Language          string
	Platform          string
}

// Transaction is a candidate payment event to be scored.
type Transaction struct {
	ID                string
	UserID            string
	Type              TransactionType
	Amount            Money
	Timestamp         time.Time
	DeviceFingerprint DeviceFingerprint
	GeoLocation       GeoLocation
	RecipientID       string
	Description       string
	Metadata          map[string]any
}

// ProfileSource distinguishes a profile read from the authoritative store
// from one synthesized for a never-before-seen user. Both yield the same
// shape; only tests and diagnostics look at the tag.
type ProfileSource string

const (
	ProfileLoaded      ProfileSource = "LOADED"
	ProfileSynthesized ProfileSource = "SYNTHESIZED"
)

// UserRiskProfile is the cached risk snapshot of a user.
type UserRiskProfile struct {
	UserID                  string
	BaseScore               float64
	TransactionHistoryScore float64
	AgeScore                float64
	VelocityScore           float64
	VerificationLevel       VerificationLevel
	DisputeRate             float64
	TotalTransactions       int64
	TotalAmount             Money
	AverageTransactionAmount Money
	AccountAgeDays          int
	FailedAttempts24h       int
	RiskLevel               RiskLevel
	LastUpdated             time.Time
	Source                  ProfileSource
}

// FraudRuleResult is one evaluator's verdict. Score is already scaled by
// the rule's catalog weight, so it is bounded above by that weight.
type FraudRuleResult struct {
	RuleName        string
	Triggered       bool
	Score           float64
	Details         map[string]any
	ExecutionTimeMs float64
}

// FraudAssessment is the immutable scored record produced for one transaction.
type FraudAssessment struct {
	ID                    string
	UserID                string
	TransactionID         string
	Score                 float64
	RiskLevel             RiskLevel
	Rules                 []FraudRuleResult
	MLScore               *float64
	Action                FraudAction
	Reason                string
	Confidence            float64
	AssessmentTimeMs      float64
	CreatedAt             time.Time
	RequiresManualReview  bool

	// Post-hoc review fields; the only mutable part of an otherwise
	// write-once record.
	ReviewedBy    string
	ReviewedAt    *time.Time
	ReviewNotes   string
}

// VelocityCheck configures one velocity window: a (duration, max-count,
// max-amount) triple over the user's recent transaction stream.
type VelocityCheck struct {
	WindowMinutes  int
	MaxTransactions int
	MaxAmount      *Money
}

// LocationFrequency is one of a user's typical locations, ranked by how
// often it was observed over the trailing window.
type LocationFrequency struct {
	Latitude  float64
	Longitude float64
	Frequency int
}
