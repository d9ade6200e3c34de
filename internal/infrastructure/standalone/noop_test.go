package standalone

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

func TestStandaloneSourcesReportNoHistory(t *testing.T) {
	ctx := context.Background()

	count, err := VelocitySource{}.CountInWindow(ctx, "u1", time.Minute, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	sum, err := VelocitySource{}.AmountSumInWindow(ctx, "u1", time.Minute, time.Now())
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	devices, err := DeviceSource{}.KnownDevices(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, devices)

	locations, err := HistorySource{}.TypicalLocations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, locations)

	hours, err := HistorySource{}.TypicalHours(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, hours)

	blacklisted, err := BlacklistSource{}.IsDeviceBlacklisted(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestStandaloneProfileCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	cache := ProfileCache{}

	_, hit, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, risk.UserRiskProfile{UserID: "u1"}))
	require.NoError(t, cache.Invalidate(ctx, "u1"))

	_, hit, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStandaloneRawStoreReportsUserNotFound(t *testing.T) {
	_, found, err := RawStore{}.GetProfileInputs(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, found)
}
