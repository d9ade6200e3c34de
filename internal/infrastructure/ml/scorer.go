// Package ml implements the model scorer: a uniform wrapper over a
// probabilistic classifier or an anomaly scorer, loaded from a persisted
// artifact set, with a bounded in-process fallback when artifacts are
// unavailable.
package ml

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// ModelKind tags which capability a loaded model exposes.
type ModelKind int

const (
	KindClassifier ModelKind = iota
	KindAnomalyScorer
)

// Classifier exposes per-class probabilities; the fraud probability is
// the probability of the positive class (index 1).
type Classifier interface {
	PredictProba(ctx context.Context, features [10]float64) (classProbabilities [2]float64, err error)
}

// AnomalyModel exposes a real-valued decision score, mapped through the
// logistic function to a probability-like value.
type AnomalyModel interface {
	DecisionFunction(ctx context.Context, features [10]float64) (score float64, err error)
}

// Scaler transforms a raw feature vector before prediction.
type Scaler interface {
	Transform(features [10]float64) [10]float64
}

// Artifacts is the (model, scaler, feature-names) triple loaded as one
// unit and swapped atomically on reload.
type Artifacts struct {
	Kind         ModelKind
	Classifier   Classifier
	Anomaly      AnomalyModel
	Scaler       Scaler
	FeatureNames [10]string
	ModelVersion string
}

// ArtifactLoader loads the three artifacts from a configured base path
// P: the model at P, the scaler at P with .pkl -> _scaler.pkl, the
// feature names at P with .pkl -> _features.pkl. The engine never
// inspects the blobs' internal format; it only needs the Classifier,
// AnomalyModel, and Scaler contracts satisfied.
type ArtifactLoader func(basePath string) (*Artifacts, error)

// Scorer is the uniform model-scorer contract.
type Scorer struct {
	artifacts atomic.Pointer[Artifacts]
	breaker   *gobreaker.CircuitBreaker
	seeded    atomic.Bool
	logger    *zap.Logger
}

// New loads artifacts from basePath via loader. If loading fails, a
// fallback scorer is installed instead: an anomaly scorer over the
// standard feature vector with contamination 0.1 and 100 trees, and a
// freshly-fit scaler, marked undefined until SeedFallback is called.
func New(loader ArtifactLoader, basePath string, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scorer{logger: logger}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-scorer",
		MaxRequests: 5,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures > 10 },
	})

	loaded, err := loader(basePath)
	if err != nil {
		logger.Warn("model artifact load failed, installing fallback scorer", zap.Error(err))
		s.artifacts.Store(newFallbackArtifacts())
		return s
	}
	s.artifacts.Store(loaded)
	s.seeded.Store(true)
	return s
}

// Reload atomically swaps in a freshly-loaded artifact triple. Readers
// mid-prediction keep using the previous triple until this completes;
// there is no torn read.
func (s *Scorer) Reload(basePath string, loader ArtifactLoader) error {
	loaded, err := loader(basePath)
	if err != nil {
		return fmt.Errorf("reload model artifacts: %w", err)
	}
	s.artifacts.Store(loaded)
	s.seeded.Store(true)
	return nil
}

// SeedFallback fits the fallback scorer's scaler against a batch of
// historical feature vectors, after which the fallback is usable. Until
// called, Score always returns undefined when running on the fallback.
func (s *Scorer) SeedFallback(samples [][10]float64) {
	art := s.artifacts.Load()
	if art == nil {
		return
	}
	if fb, ok := art.Scaler.(*standardScaler); ok {
		fb.fit(samples)
		s.seeded.Store(true)
	}
}

// Score implements the abstract operation score(Transaction,
// UserRiskProfile) -> ml_score in [0,1] | undefined. Any artifact
// load/prediction failure or an open circuit breaker yields undefined;
// the coordinator proceeds with rule score alone.
func (s *Scorer) Score(ctx context.Context, tx risk.Transaction, profile risk.UserRiskProfile, inputs risk.FeatureInputs) *float64 {
	if !s.seeded.Load() {
		return nil
	}

	art := s.artifacts.Load()
	if art == nil {
		return nil
	}

	raw := risk.FeatureVector(tx, profile, inputs)
	scaled := art.Scaler.Transform(raw)

	result, err := s.breaker.Execute(func() (any, error) {
		switch art.Kind {
		case KindClassifier:
			probs, err := art.Classifier.PredictProba(ctx, scaled)
			if err != nil {
				return nil, err
			}
			return risk.Clip01(probs[1]), nil
		default:
			decision, err := art.Anomaly.DecisionFunction(ctx, scaled)
			if err != nil {
				return nil, err
			}
			return risk.Clip01(risk.StableSigmoid(decision)), nil
		}
	})
	if err != nil {
		s.logger.Warn("model prediction failed, ml_score undefined", zap.Error(err))
		return nil
	}

	score := result.(float64)
	return &score
}
