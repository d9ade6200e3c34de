// Package postgres is the GORM-backed authoritative store:
// users/verification level, transaction statistics, persisted
// assessments, and the device blacklist.
package postgres

import (
	"time"
)

// UserModel mirrors the users(id, created_at, verification_level) table.
type UserModel struct {
	ID                string    `gorm:"primaryKey;column:id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	VerificationLevel string    `gorm:"column:verification_level"`
}

func (UserModel) TableName() string { return "users" }

// UserTransactionStatsModel mirrors user_transaction_stats.
type UserTransactionStatsModel struct {
	UserID            string  `gorm:"primaryKey;column:user_id"`
	TotalTransactions int64   `gorm:"column:total_transactions"`
	TotalAmount       string  `gorm:"column:total_amount"`
	AvgAmount         string  `gorm:"column:avg_amount"`
	Currency          string  `gorm:"column:currency"`
	FailedAttempts24h int     `gorm:"column:failed_attempts_24h"`
	DisputeRate       float64 `gorm:"column:dispute_rate"`
}

func (UserTransactionStatsModel) TableName() string { return "user_transaction_stats" }

// GeolocationModel mirrors geolocations.
type GeolocationModel struct {
	ID        string  `gorm:"primaryKey;column:id"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	Country   string  `gorm:"column:country"`
	City      string  `gorm:"column:city"`
	Region    string  `gorm:"column:region"`
}

func (GeolocationModel) TableName() string { return "geolocations" }

// TransactionModel mirrors transactions.
type TransactionModel struct {
	ID                string    `gorm:"primaryKey;column:id"`
	UserID            string    `gorm:"column:user_id;index"`
	Amount            string    `gorm:"column:amount"`
	Currency          string    `gorm:"column:currency"`
	Timestamp         time.Time `gorm:"column:timestamp;index"`
	GeolocationID     string    `gorm:"column:geolocation_id"`
	DeviceFingerprint string    `gorm:"column:device_fingerprint"`
	TransactionType   string    `gorm:"column:transaction_type"`
}

func (TransactionModel) TableName() string { return "transactions" }

// FraudAssessmentModel mirrors fraud_assessments, insert-only.
type FraudAssessmentModel struct {
	ID                   string    `gorm:"primaryKey;column:id"`
	UserID               string    `gorm:"column:user_id;index"`
	TransactionID        string    `gorm:"column:transaction_id;index"`
	Score                float64   `gorm:"column:score"`
	RiskLevel            string    `gorm:"column:risk_level"`
	Rules                string    `gorm:"column:rules"` // JSON-encoded []risk.FraudRuleResult
	MLScore              *float64  `gorm:"column:ml_score"`
	Action               string    `gorm:"column:action"`
	Reason               string    `gorm:"column:reason"`
	Confidence           float64   `gorm:"column:confidence"`
	AssessmentTimeMs     float64   `gorm:"column:assessment_time_ms"`
	RequiresManualReview bool      `gorm:"column:requires_manual_review"`
	CreatedAt            time.Time `gorm:"column:created_at;index"`
	ReviewedBy           string    `gorm:"column:reviewed_by"`
	ReviewedAt           *time.Time `gorm:"column:reviewed_at"`
	ReviewNotes          string    `gorm:"column:review_notes"`
}

func (FraudAssessmentModel) TableName() string { return "fraud_assessments" }

// DeviceBlacklistModel mirrors device_blacklist(fingerprint, active); it
// is the DEVICE-typed subset of the generic BlacklistEntry concept.
type DeviceBlacklistModel struct {
	Fingerprint string `gorm:"primaryKey;column:fingerprint"`
	Active      bool   `gorm:"column:active"`
	Reason      string `gorm:"column:reason"`
	CreatedBy   string `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (DeviceBlacklistModel) TableName() string { return "device_blacklist" }

// FraudInvestigationModel persists risk.FraudInvestigation case records.
type FraudInvestigationModel struct {
	ID                 string    `gorm:"primaryKey;column:id"`
	UserID             string    `gorm:"column:user_id;index"`
	AssessmentIDs      string    `gorm:"column:assessment_ids"` // comma-separated
	InvestigationStatus string   `gorm:"column:investigation_status"`
	Priority           string    `gorm:"column:priority"`
	AssignedTo         string    `gorm:"column:assigned_to"`
	Notes              string    `gorm:"column:notes"` // JSON-encoded []risk.InvestigationNote
	Findings           string    `gorm:"column:findings"`
	ActionTaken        string    `gorm:"column:action_taken"`
	ResolvedBy         string    `gorm:"column:resolved_by"`
	ResolvedAt         *time.Time `gorm:"column:resolved_at"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
	ClosedAt           *time.Time `gorm:"column:closed_at"`
}

func (FraudInvestigationModel) TableName() string { return "fraud_investigations" }
