package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

type fakeVelocity struct {
	count int64
	sum   decimal.Decimal
}

func (f *fakeVelocity) CountInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (int64, error) {
	return f.count, nil
}

func (f *fakeVelocity) AmountSumInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (decimal.Decimal, error) {
	return f.sum, nil
}

type fakeDevices struct{ known map[string]struct{} }

func (f *fakeDevices) KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error) {
	return f.known, nil
}

type fakeHistory struct {
	locations []risk.LocationFrequency
	hours     map[int]int
}

func (f *fakeHistory) TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error) {
	return f.locations, nil
}

func (f *fakeHistory) TypicalHours(ctx context.Context, userID string) (map[int]int, error) {
	return f.hours, nil
}

type fakeBlacklist struct{ blacklisted bool }

func (f *fakeBlacklist) IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	return f.blacklisted, nil
}

func TestAggregatorDelegatesToEachSource(t *testing.T) {
	velocity := &fakeVelocity{count: 12, sum: decimal.NewFromInt(500)}
	devices := &fakeDevices{known: map[string]struct{}{"dev-1": {}}}
	history := &fakeHistory{
		locations: []risk.LocationFrequency{{Latitude: 1, Longitude: 2, Frequency: 3}},
		hours:     map[int]int{9: 5},
	}
	blacklist := &fakeBlacklist{blacklisted: true}

	agg := New(velocity, devices, history, blacklist)
	ctx := context.Background()
	now := time.Now()

	count, err := agg.CountInWindow(ctx, "u1", 60, now)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	sum, err := agg.AmountSumInWindow(ctx, "u1", 60, now)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(500)))

	locs, err := agg.TypicalLocations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	hours, err := agg.TypicalHours(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, hours[9])

	known, err := agg.KnownDevices(ctx, "u1")
	require.NoError(t, err)
	_, ok := known["dev-1"]
	assert.True(t, ok)

	bl, err := agg.IsDeviceBlacklisted(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, bl)
}
