package risk

import "time"

// The types in this file are not exercised by the scoring pipeline
// itself; they round out the system around it: alerting, case
// management, and reporting.

// FraudAlert is the durable record an (out-of-scope) alert delivery
// channel would persist from the minimal payload this engine emits.
type FraudAlert struct {
	ID             string
	AssessmentID   string
	UserID         string
	AlertType      string
	Severity       RiskLevel
	Title          string
	Description    string
	Metadata       map[string]any
	IsResolved     bool
	ResolvedBy     string
	ResolvedAt     *time.Time
	ResolutionNotes string
	CreatedAt      time.Time
}

// NewFraudAlertFromAssessment builds the richer alert record from a
// completed high-severity assessment.
func NewFraudAlertFromAssessment(a FraudAssessment, alertID string) FraudAlert {
	return FraudAlert{
		ID:           alertID,
		AssessmentID: a.ID,
		UserID:       a.UserID,
		AlertType:    "FRAUD_RISK",
		Severity:     a.RiskLevel,
		Title:        "Fraud risk assessment flagged " + string(a.RiskLevel),
		Description:  a.Reason,
		Metadata: map[string]any{
			"score":  a.Score,
			"action": a.Action,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// FraudPattern is a machine-readable catalog description of a detection
// pattern. Registry.Patterns renders the rule catalog as these entries
// for the rules introspection endpoint; the scoring pipeline itself
// never consults them.
type FraudPattern struct {
	ID                  string
	Name                string
	Description         string
	PatternType         string
	DetectionAlgorithm  string
	Parameters          map[string]any
	ConfidenceThreshold float64
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ListType enumerates the kind of value a Whitelist/BlacklistEntry names.
type ListType string

const (
	ListTypeUser   ListType = "USER"
	ListTypeDevice ListType = "DEVICE"
	ListTypeIP     ListType = "IP"
	ListTypeEmail  ListType = "EMAIL"
	ListTypeDomain ListType = "DOMAIN"
)

// WhitelistEntry and BlacklistEntry are generic allow/deny-list rows.
// is_device_blacklisted queries the DEVICE-typed subset of
// BlacklistEntry; no rule in the default catalog consults the whitelist.
type WhitelistEntry struct {
	ID        string
	Type      ListType
	Value     string
	Reason    string
	ExpiresAt *time.Time
	CreatedBy string
	CreatedAt time.Time
	IsActive  bool
}

type BlacklistEntry struct {
	ID        string
	Type      ListType
	Value     string
	Reason    string
	ExpiresAt *time.Time
	CreatedBy string
	CreatedAt time.Time
	IsActive  bool
}

// InvestigationStatus tracks a FraudInvestigation through manual review.
type InvestigationStatus string

const (
	InvestigationOpen       InvestigationStatus = "OPEN"
	InvestigationInProgress InvestigationStatus = "IN_PROGRESS"
	InvestigationResolved   InvestigationStatus = "RESOLVED"
	InvestigationClosed     InvestigationStatus = "CLOSED"
	InvestigationEscalated  InvestigationStatus = "ESCALATED"
)

// InvestigationNote is one dated remark on an investigation.
type InvestigationNote struct {
	Author    string
	Content   string
	CreatedAt time.Time
}

// FraudInvestigation groups one or more assessments under manual review.
// Manual review UIs are out of scope; this type only models the case
// shape and its lifecycle transitions. Resolution is a two-step affair:
// Resolve records the outcome, Close archives a resolved case.
type FraudInvestigation struct {
	ID                 string
	UserID             string
	AssessmentIDs      []string
	InvestigationStatus InvestigationStatus
	Priority           RiskLevel
	AssignedTo         string
	Notes              []InvestigationNote
	Findings           string
	ActionTaken        string
	ResolvedBy         string
	ResolvedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClosedAt           *time.Time
}

// NewFraudInvestigation opens an investigation for the given assessment.
func NewFraudInvestigation(id, userID, assessmentID string, priority RiskLevel) *FraudInvestigation {
	now := time.Now().UTC()
	return &FraudInvestigation{
		ID:                 id,
		UserID:             userID,
		AssessmentIDs:      []string{assessmentID},
		InvestigationStatus: InvestigationOpen,
		Priority:           priority,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Assign sets the investigator and marks the case in progress. A
// resolved or closed case cannot be reassigned.
func (f *FraudInvestigation) Assign(investigator string) error {
	if f.InvestigationStatus == InvestigationResolved || f.InvestigationStatus == InvestigationClosed {
		return ErrInvestigationClosed
	}
	f.AssignedTo = investigator
	f.InvestigationStatus = InvestigationInProgress
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// AddNote appends a dated remark to the case record.
func (f *FraudInvestigation) AddNote(author, content string) {
	now := time.Now().UTC()
	f.Notes = append(f.Notes, InvestigationNote{Author: author, Content: content, CreatedAt: now})
	f.UpdatedAt = now
}

// AddAssessment attaches another assessment to an existing investigation.
func (f *FraudInvestigation) AddAssessment(assessmentID string) {
	f.AssessmentIDs = append(f.AssessmentIDs, assessmentID)
	f.UpdatedAt = time.Now().UTC()
}

// Escalate raises the investigation's priority to CRITICAL and records
// the reason as a note.
func (f *FraudInvestigation) Escalate(reason string) {
	f.Priority = RiskCritical
	f.InvestigationStatus = InvestigationEscalated
	f.AddNote("", "escalated: "+reason)
}

// Resolve records findings and the action taken, marking the case
// resolved. A closed case cannot be resolved.
func (f *FraudInvestigation) Resolve(resolvedBy, findings, actionTaken string) error {
	if f.InvestigationStatus == InvestigationClosed {
		return ErrInvestigationClosed
	}
	f.Findings = findings
	f.ActionTaken = actionTaken
	f.ResolvedBy = resolvedBy
	f.InvestigationStatus = InvestigationResolved
	now := time.Now().UTC()
	f.ResolvedAt = &now
	f.UpdatedAt = now
	return nil
}

// Close archives a resolved case. Closing before Resolve is an error.
func (f *FraudInvestigation) Close() error {
	if f.InvestigationStatus != InvestigationResolved {
		return ErrInvestigationNotResolved
	}
	f.InvestigationStatus = InvestigationClosed
	now := time.Now().UTC()
	f.UpdatedAt = now
	f.ClosedAt = &now
	return nil
}

// IsOpen reports whether the investigation still needs attention.
func (f *FraudInvestigation) IsOpen() bool {
	return f.InvestigationStatus == InvestigationOpen || f.InvestigationStatus == InvestigationInProgress
}

// IsClosed reports whether the investigation has been archived.
func (f *FraudInvestigation) IsClosed() bool {
	return f.InvestigationStatus == InvestigationClosed
}

// FraudStatistics is a periodic reporting aggregate computed by a
// read-only query over persisted assessments; it plays no part in the
// per-request pipeline.
type FraudStatistics struct {
	PeriodStart          time.Time
	PeriodEnd            time.Time
	TotalAssessments     int64
	ApprovedCount        int64
	RejectedCount        int64
	ManualReviewCount    int64
	AverageScore         float64
	HighRiskTransactions int64
	FraudDetected        int64
	FalsePositives       int64
	FalseNegatives       int64
	Accuracy             float64
	Precision            float64
	Recall               float64
}
