package risk

import "errors"

// Validation errors.
var (
	ErrInvalidCurrency  = errors.New("risk: currency must be a 3-letter ISO-4217 code")
	ErrInvalidPrecision = errors.New("risk: precision must be between 0 and 8")
	ErrInvalidAmount    = errors.New("risk: amount must be positive")
	ErrInvalidCoordinates = errors.New("risk: latitude/longitude out of range")
	ErrMissingCountry   = errors.New("risk: geolocation requires a country")
	ErrNoTransaction    = errors.New("No transaction provided")
)

// Investigation lifecycle errors.
var (
	ErrInvestigationClosed      = errors.New("risk: investigation is resolved or closed")
	ErrInvestigationNotResolved = errors.New("risk: investigation must be resolved before closing")
)

// Rule engine errors.
var (
	ErrRuleNotFound   = errors.New("risk: rule not found in registry")
	ErrWeightsInvalid = errors.New("risk: rule weights must sum to 1.0")
	ErrNoRuleResults  = errors.New("risk: no rule evaluations completed")
)

// Pipeline errors, one per failure category.
var (
	ErrInvalidRequest      = errors.New("risk: invalid request")
	ErrProfileUnavailable  = errors.New("risk: profile store unavailable")
	ErrAggregatorFailure   = errors.New("risk: historical aggregator failure")
	ErrModelFailure        = errors.New("risk: model scorer failure")
	ErrPersistenceFailure  = errors.New("risk: persistence failure")
	ErrAssessmentTimeout   = errors.New("risk: assessment deadline exceeded")
)

// ErrorKind classifies a pipeline failure so callers can branch on
// category without relying on sentinel identity.
type ErrorKind string

const (
	KindInvalidRequest     ErrorKind = "INVALID_REQUEST"
	KindProfileLookup      ErrorKind = "PROFILE_LOOKUP_FAILURE"
	KindAggregatorFailure  ErrorKind = "AGGREGATOR_FAILURE"
	KindModelFailure       ErrorKind = "MODEL_FAILURE"
	KindPersistenceFailure ErrorKind = "PERSISTENCE_FAILURE"
	KindTimeout            ErrorKind = "TIMEOUT"
)

// PipelineError wraps an underlying error with its classification.
type PipelineError struct {
	Kind ErrorKind
	Err  error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError classifies err under kind.
func NewPipelineError(kind ErrorKind, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}
