// Package standalone provides no-op backing adapters for the aggregator
// and profile store ports, used when redis or postgres failed to connect
// at startup. Rather than fabricating in-memory state, these report
// "nothing known yet" so the pipeline degrades the way it already does
// for a first-seen user, instead of failing every request outright.
package standalone

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// VelocitySource is a no-history velocity source.
type VelocitySource struct{}

func (VelocitySource) CountInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (int64, error) {
	return 0, nil
}

func (VelocitySource) AmountSumInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// DeviceSource reports no known devices for any user.
type DeviceSource struct{}

func (DeviceSource) KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

// HistorySource reports no location or hour history for any user.
type HistorySource struct{}

func (HistorySource) TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error) {
	return nil, nil
}

func (HistorySource) TypicalHours(ctx context.Context, userID string) (map[int]int, error) {
	return map[int]int{}, nil
}

// BlacklistSource never flags a device as blacklisted.
type BlacklistSource struct{}

func (BlacklistSource) IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	return false, nil
}

// ProfileCache never hits and discards writes.
type ProfileCache struct{}

func (ProfileCache) Get(ctx context.Context, userID string) (risk.UserRiskProfile, bool, error) {
	return risk.UserRiskProfile{}, false, nil
}

func (ProfileCache) Set(ctx context.Context, profile risk.UserRiskProfile) error { return nil }

func (ProfileCache) Invalidate(ctx context.Context, userID string) error { return nil }

// RawStore reports every user as not found, so the profile store
// synthesizes the default profile for every lookup.
type RawStore struct{}

func (RawStore) GetProfileInputs(ctx context.Context, userID string) (risk.ProfileInputs, bool, error) {
	return risk.ProfileInputs{}, false, nil
}
