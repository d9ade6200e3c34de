package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// linearClassifier is a logistic-regression classifier loaded from a
// JSON artifact: a weight per feature plus an intercept. PredictProba
// returns [P(class=0), P(class=1)] via the logistic function (math.Exp,
// never a series approximation).
type linearClassifier struct {
	weights   [10]float64
	intercept float64
}

func (c *linearClassifier) PredictProba(ctx context.Context, features [10]float64) ([2]float64, error) {
	var z float64
	for i, w := range c.weights {
		z += w * features[i]
	}
	z += c.intercept

	pPositive := risk.StableSigmoid(z)
	return [2]float64{1 - pPositive, pPositive}, nil
}

// jsonArtifactFile is the on-disk shape of a persisted linear-classifier
// artifact. A real deployment's training pipeline (out of scope here)
// would own producing this file; the engine only ever reads it.
type jsonArtifactFile struct {
	ModelVersion string     `json:"model_version"`
	Kind         string     `json:"kind"` // "classifier" | "anomaly"
	Weights      [10]float64 `json:"weights"`
	Intercept    float64    `json:"intercept"`
	FeatureNames [10]string `json:"feature_names"`
	ScalerMean   [10]float64 `json:"scaler_mean"`
	ScalerStd    [10]float64 `json:"scaler_std"`
}

// LoadJSONArtifacts is the default ArtifactLoader: it reads the model,
// the scaler statistics and the feature names from the single JSON file
// at basePath. It does not read separate _scaler.pkl or _features.pkl
// files, and it does not read Python pickles. A missing or malformed file
// is a load failure, triggering the fallback scorer.
func LoadJSONArtifacts(basePath string) (*Artifacts, error) {
	data, err := os.ReadFile(basePath)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", basePath, err)
	}

	var file jsonArtifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", basePath, err)
	}

	scaler := &standardScaler{mean: file.ScalerMean, std: file.ScalerStd, ready: true}

	switch strings.ToLower(file.Kind) {
	case "classifier":
		return &Artifacts{
			Kind:         KindClassifier,
			Classifier:   &linearClassifier{weights: file.Weights, intercept: file.Intercept},
			Scaler:       scaler,
			FeatureNames: file.FeatureNames,
			ModelVersion: file.ModelVersion,
		}, nil
	case "anomaly":
		return &Artifacts{
			Kind:         KindAnomalyScorer,
			Anomaly:      newFallbackAnomalyModel(scaler),
			Scaler:       scaler,
			FeatureNames: file.FeatureNames,
			ModelVersion: file.ModelVersion,
		}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q in artifact %s", file.Kind, basePath)
	}
}
