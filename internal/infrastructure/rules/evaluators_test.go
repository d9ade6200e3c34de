package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// fakeAggregator is a hand-configured stand-in for the historical
// aggregator, letting each evaluator test set up exactly
// the window counts, typical locations/hours, and device history it needs.
type fakeAggregator struct {
	counts        map[int]int
	amountSums    map[int]decimal.Decimal
	locations     []risk.LocationFrequency
	hours         map[int]int
	knownDevices  map[string]struct{}
	blacklisted   map[string]bool
	countErr      error
	locationsErr  error
	hoursErr      error
	devicesErr    error
}

func newFakeAggregator() *fakeAggregator {
	return &fakeAggregator{
		counts:       map[int]int{},
		amountSums:   map[int]decimal.Decimal{},
		hours:        map[int]int{},
		knownDevices: map[string]struct{}{},
		blacklisted:  map[string]bool{},
	}
}

func (f *fakeAggregator) CountInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[windowMinutes], nil
}

func (f *fakeAggregator) AmountSumInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (decimal.Decimal, error) {
	if f.countErr != nil {
		return decimal.Zero, f.countErr
	}
	return f.amountSums[windowMinutes], nil
}

func (f *fakeAggregator) TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error) {
	if f.locationsErr != nil {
		return nil, f.locationsErr
	}
	return f.locations, nil
}

func (f *fakeAggregator) TypicalHours(ctx context.Context, userID string) (map[int]int, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	return f.hours, nil
}

func (f *fakeAggregator) KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error) {
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	return f.knownDevices, nil
}

func (f *fakeAggregator) IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	return f.blacklisted[fingerprint], nil
}

func baseTransaction() risk.Transaction {
	amount, _ := risk.NewMoney(decimal.NewFromInt(10), "USD", 2)
	return risk.Transaction{
		ID:     "tx-1",
		UserID: "user-1",
		Type:   risk.TransactionPayment,
		Amount: amount,
		Timestamp: time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC),
		DeviceFingerprint: risk.DeviceFingerprint{Fingerprint: "device-xyz"},
		GeoLocation:       risk.GeoLocation{Latitude: 40.7128, Longitude: -74.0060, Country: "US"},
	}
}

func TestVelocityEvaluatorNoBurst(t *testing.T) {
	agg := newFakeAggregator()
	eval := VelocityEvaluator(DefaultVelocityWindows)
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.30)
	assert.False(t, result.Triggered)
	assert.Equal(t, 0.0, result.Score)
}

func TestVelocityEvaluatorHourlyBurst(t *testing.T) {
	agg := newFakeAggregator()
	agg.counts[60] = 15 // exceeds hourly max of 10
	eval := VelocityEvaluator(DefaultVelocityWindows)
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.30)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 0.8*0.30, result.Score, 1e-9)
}

func TestVelocityEvaluatorAmountLimitBeatsCount(t *testing.T) {
	agg := newFakeAggregator()
	agg.counts[60] = 15          // 0.8 raw
	agg.amountSums[1440] = decimal.NewFromInt(20000) // exceeds daily $10k -> 0.9 raw
	eval := VelocityEvaluator(DefaultVelocityWindows)
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.30)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 0.9*0.30, result.Score, 1e-9)
}

func TestVelocityEvaluatorAggregatorFailureIsNonFatal(t *testing.T) {
	agg := newFakeAggregator()
	agg.countErr = errors.New("store unavailable")
	eval := VelocityEvaluator(DefaultVelocityWindows)
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.30)
	assert.False(t, result.Triggered)
	assert.Equal(t, 0.0, result.Score)
	require.Contains(t, result.Details, "error")
}

func moneyOf(t *testing.T, amount string) risk.Money {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	m, err := risk.NewMoney(d, "USD", 2)
	require.NoError(t, err)
	return m
}

func TestAmountAnomalyEvaluatorInsufficientHistory(t *testing.T) {
	eval := AmountAnomalyEvaluator()
	result := eval(context.Background(), newFakeAggregator(), baseTransaction(), risk.UserRiskProfile{}, 0.25)
	assert.False(t, result.Triggered)
	assert.Equal(t, "insufficient_history", result.Details["status"])
}

func TestAmountAnomalyEvaluatorTriggersOnLargeDeviation(t *testing.T) {
	tx := baseTransaction()
	tx.Amount = moneyOf(t, "2000")
	profile := risk.UserRiskProfile{TotalTransactions: 5, AverageTransactionAmount: moneyOf(t, "50")}
	eval := AmountAnomalyEvaluator()
	result := eval(context.Background(), newFakeAggregator(), tx, profile, 0.25)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 0.8*0.25, result.Score, 1e-9) // d=39 -> min(0.8, 7.8) = 0.8
}

func TestAmountAnomalyEvaluatorNoTriggerBelowThreshold(t *testing.T) {
	tx := baseTransaction()
	tx.Amount = moneyOf(t, "60")
	profile := risk.UserRiskProfile{TotalTransactions: 5, AverageTransactionAmount: moneyOf(t, "50")}
	eval := AmountAnomalyEvaluator()
	result := eval(context.Background(), newFakeAggregator(), tx, profile, 0.25)
	assert.False(t, result.Triggered)
}

func TestGeolocationAnomalyEvaluatorNoHistory(t *testing.T) {
	eval := GeolocationAnomalyEvaluator()
	result := eval(context.Background(), newFakeAggregator(), baseTransaction(), risk.UserRiskProfile{}, 0.20)
	assert.False(t, result.Triggered)
	assert.Equal(t, "no_location_history", result.Details["status"])
}

func TestGeolocationAnomalyEvaluatorTriggersFarFromTypical(t *testing.T) {
	agg := newFakeAggregator()
	agg.locations = []risk.LocationFrequency{{Latitude: 35.6762, Longitude: 139.6503, Frequency: 10}} // Tokyo
	tx := baseTransaction() // New York
	eval := GeolocationAnomalyEvaluator()
	result := eval(context.Background(), agg, tx, risk.UserRiskProfile{}, 0.20)
	assert.True(t, result.Triggered)
	assert.Greater(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 0.20)
}

func TestGeolocationAnomalyEvaluatorNoTriggerNearTypical(t *testing.T) {
	agg := newFakeAggregator()
	agg.locations = []risk.LocationFrequency{{Latitude: 40.7128, Longitude: -74.0060, Frequency: 10}}
	eval := GeolocationAnomalyEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.20)
	assert.False(t, result.Triggered)
}

func TestDeviceFingerprintEvaluatorNewDevice(t *testing.T) {
	agg := newFakeAggregator()
	eval := DeviceFingerprintEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.15)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 0.5*0.15, result.Score, 1e-9)
}

func TestDeviceFingerprintEvaluatorBlacklisted(t *testing.T) {
	agg := newFakeAggregator()
	agg.blacklisted["device-xyz"] = true
	eval := DeviceFingerprintEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.15)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 1.0*0.15, result.Score, 1e-9)
}

func TestDeviceFingerprintEvaluatorKnownDevice(t *testing.T) {
	agg := newFakeAggregator()
	agg.knownDevices["device-xyz"] = struct{}{}
	eval := DeviceFingerprintEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.15)
	assert.False(t, result.Triggered)
	assert.Equal(t, 0.0, result.Score)
}

func TestTimePatternEvaluatorNoHistory(t *testing.T) {
	eval := TimePatternEvaluator()
	result := eval(context.Background(), newFakeAggregator(), baseTransaction(), risk.UserRiskProfile{}, 0.10)
	assert.False(t, result.Triggered)
	assert.Equal(t, "no_transaction_history", result.Details["status"])
}

func TestTimePatternEvaluatorTriggersOnRareHour(t *testing.T) {
	agg := newFakeAggregator()
	agg.hours = map[int]int{14: 1, 9: 95, 10: 4} // hour 14 is rare: 1/100 = 0.01
	eval := TimePatternEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.10)
	assert.True(t, result.Triggered)
	assert.InDelta(t, 0.4*0.10, result.Score, 1e-9)
}

func TestTimePatternEvaluatorNoTriggerOnCommonHour(t *testing.T) {
	agg := newFakeAggregator()
	agg.hours = map[int]int{14: 50, 9: 50}
	eval := TimePatternEvaluator()
	result := eval(context.Background(), agg, baseTransaction(), risk.UserRiskProfile{}, 0.10)
	assert.False(t, result.Triggered)
}
