package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSONArtifactsClassifier(t *testing.T) {
	path := writeArtifact(t, `{
		"model_version": "v1",
		"kind": "classifier",
		"weights": [0.1,0,0,0,0,0,0,0,0,0],
		"intercept": -0.5,
		"feature_names": ["transaction_amount","hour_of_day","day_of_week","account_age_days","total_transactions","average_transaction_amount","failed_attempts_24h","new_geolocation","new_device","amount_deviation_ratio"],
		"scaler_mean": [0,0,0,0,0,0,0,0,0,0],
		"scaler_std": [1,1,1,1,1,1,1,1,1,1]
	}`)

	artifacts, err := LoadJSONArtifacts(path)
	require.NoError(t, err)
	assert.Equal(t, KindClassifier, artifacts.Kind)
	assert.Equal(t, "v1", artifacts.ModelVersion)
	require.NotNil(t, artifacts.Classifier)

	probs, err := artifacts.Classifier.PredictProba(nil, [10]float64{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
}

func TestLoadJSONArtifactsAnomaly(t *testing.T) {
	path := writeArtifact(t, `{
		"model_version": "v2",
		"kind": "anomaly",
		"scaler_mean": [0,0,0,0,0,0,0,0,0,0],
		"scaler_std": [1,1,1,1,1,1,1,1,1,1]
	}`)

	artifacts, err := LoadJSONArtifacts(path)
	require.NoError(t, err)
	assert.Equal(t, KindAnomalyScorer, artifacts.Kind)
	require.NotNil(t, artifacts.Anomaly)
}

func TestLoadJSONArtifactsUnknownKind(t *testing.T) {
	path := writeArtifact(t, `{"model_version":"v3","kind":"unknown"}`)
	_, err := LoadJSONArtifacts(path)
	assert.Error(t, err)
}

func TestLoadJSONArtifactsMissingFile(t *testing.T) {
	_, err := LoadJSONArtifacts(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestLoadJSONArtifactsMalformedJSON(t *testing.T) {
	path := writeArtifact(t, `not json`)
	_, err := LoadJSONArtifacts(path)
	assert.Error(t, err)
}
