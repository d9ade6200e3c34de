// Package aggregator implements the historical aggregator:
// a pure-query layer over the velocity/device/location/hour caches and
// the device blacklist, satisfying the risk.Aggregator port the rule
// engine depends on.
package aggregator

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// VelocitySource is the windowed count/sum port (backed by the Redis
// velocity cache).
type VelocitySource interface {
	CountInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (int64, error)
	AmountSumInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (decimal.Decimal, error)
}

// DeviceSource is the known-device-set port.
type DeviceSource interface {
	KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error)
}

// HistorySource is the typical-location/typical-hour port.
type HistorySource interface {
	TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error)
	TypicalHours(ctx context.Context, userID string) (map[int]int, error)
}

// BlacklistSource is the device-blacklist lookup port.
type BlacklistSource interface {
	IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error)
}

// Aggregator implements risk.Aggregator by composing the cache and store ports.
type Aggregator struct {
	velocity   VelocitySource
	devices    DeviceSource
	history    HistorySource
	blacklist  BlacklistSource
}

// New constructs an Aggregator. All four sources are required.
func New(velocity VelocitySource, devices DeviceSource, history HistorySource, blacklist BlacklistSource) *Aggregator {
	return &Aggregator{velocity: velocity, devices: devices, history: history, blacklist: blacklist}
}

// CountInWindow implements risk.Aggregator.
func (a *Aggregator) CountInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (int, error) {
	count, err := a.velocity.CountInWindow(ctx, userID, time.Duration(windowMinutes)*time.Minute, now)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// AmountSumInWindow implements risk.Aggregator.
func (a *Aggregator) AmountSumInWindow(ctx context.Context, userID string, windowMinutes int, now time.Time) (decimal.Decimal, error) {
	return a.velocity.AmountSumInWindow(ctx, userID, time.Duration(windowMinutes)*time.Minute, now)
}

// TypicalLocations implements risk.Aggregator.
func (a *Aggregator) TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error) {
	return a.history.TypicalLocations(ctx, userID)
}

// TypicalHours implements risk.Aggregator.
func (a *Aggregator) TypicalHours(ctx context.Context, userID string) (map[int]int, error) {
	return a.history.TypicalHours(ctx, userID)
}

// KnownDevices implements risk.Aggregator.
func (a *Aggregator) KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error) {
	return a.devices.KnownDevices(ctx, userID)
}

// IsDeviceBlacklisted implements risk.Aggregator.
func (a *Aggregator) IsDeviceBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	return a.blacklist.IsDeviceBlacklisted(ctx, fingerprint)
}
