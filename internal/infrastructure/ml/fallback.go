package ml

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// standardScaler is a fresh, in-process stand-in for the persisted
// scaler artifact: z-score normalization fit from a batch of historical
// feature vectors via gonum/stat.MeanStdDev. Until fit (SeedFallback),
// Transform is the identity.
type standardScaler struct {
	mu    sync.RWMutex
	mean  [10]float64
	std   [10]float64
	ready bool
}

func newStandardScaler() *standardScaler {
	return &standardScaler{}
}

func (s *standardScaler) fit(samples [][10]float64) {
	if len(samples) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	column := make([]float64, len(samples))
	for feature := 0; feature < 10; feature++ {
		for i, sample := range samples {
			column[i] = sample[feature]
		}
		mean, std := stat.MeanStdDev(column, nil)
		s.mean[feature] = mean
		s.std[feature] = std
	}
	s.ready = true
}

func (s *standardScaler) Transform(features [10]float64) [10]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return features
	}
	var out [10]float64
	for i, v := range features {
		if s.std[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.mean[i]) / s.std[i]
	}
	return out
}

// fallbackAnomalyModel is the in-process anomaly scorer used when no
// trained artifact could be loaded, configured with contamination 0.1 and
// 100 estimators. Its score is the Euclidean norm of the scaled feature
// vector times contamination times estimators/100; it builds no trees or
// ensemble and is not an isolation forest. It never trains a model.
type fallbackAnomalyModel struct {
	contamination float64
	estimators    int
	scaler        *standardScaler
}

func newFallbackAnomalyModel(scaler *standardScaler) *fallbackAnomalyModel {
	return &fallbackAnomalyModel{contamination: 0.1, estimators: 100, scaler: scaler}
}

// DecisionFunction returns a scalar anomaly score: larger magnitude means
// further from the fitted centroid, scaled by the configured
// contamination so the sigmoid mapping in Score lands in a sensible range.
func (m *fallbackAnomalyModel) DecisionFunction(ctx context.Context, features [10]float64) (float64, error) {
	var sumSquares float64
	for _, v := range features {
		sumSquares += v * v
	}
	distance := math.Sqrt(sumSquares)
	return distance * m.contamination * (float64(m.estimators) / 100.0), nil
}

func newFallbackArtifacts() *Artifacts {
	scaler := newStandardScaler()
	return &Artifacts{
		Kind:         KindAnomalyScorer,
		Anomaly:      newFallbackAnomalyModel(scaler),
		Scaler:       scaler,
		ModelVersion: "fallback-v0",
	}
}
