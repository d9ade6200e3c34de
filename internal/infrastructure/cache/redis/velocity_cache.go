package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// VelocityCache tracks a user's recent transaction stream in a sorted
// set keyed by timestamp, supporting the count/sum-in-window queries the
// historical aggregator needs for the velocity rule. Retention must
// cover the widest configured velocity window (weekly, 10080 minutes).
type VelocityCache struct {
	client *Client
}

// NewVelocityCache creates a new velocity cache.
func NewVelocityCache(client *Client) *VelocityCache {
	return &VelocityCache{client: client}
}

const velocityRetention = 8 * 24 * time.Hour

func velocityKey(userID string) string {
	return fmt.Sprintf("velocity:user:%s", userID)
}

// RecordTransaction records a transaction for velocity tracking.
func (c *VelocityCache) RecordTransaction(ctx context.Context, userID, txID string, amount decimal.Decimal, timestamp time.Time) error {
	key := velocityKey(userID)

	member := redis.Z{
		Score:  float64(timestamp.Unix()),
		Member: fmt.Sprintf("%s|%s", txID, amount.String()),
	}

	if err := c.client.ZAdd(ctx, key, member); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	if err := c.client.Expire(ctx, key, velocityRetention); err != nil {
		return fmt.Errorf("failed to set expiration: %w", err)
	}

	cutoff := time.Now().Add(-velocityRetention).Unix()
	_ = c.client.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))

	return nil
}

// CountInWindow returns the number of transactions in [now-window, now].
func (c *VelocityCache) CountInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (int64, error) {
	key := velocityKey(userID)
	minTime := now.Add(-window).Unix()
	maxTime := now.Unix()

	count, err := c.client.ZCount(ctx, key, strconv.FormatInt(minTime, 10), strconv.FormatInt(maxTime, 10))
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction count: %w", err)
	}
	return count, nil
}

// AmountSumInWindow returns the sum of transaction amounts in the window.
func (c *VelocityCache) AmountSumInWindow(ctx context.Context, userID string, window time.Duration, now time.Time) (decimal.Decimal, error) {
	key := velocityKey(userID)
	minTime := now.Add(-window).Unix()
	maxTime := now.Unix()

	members, err := c.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(minTime, 10),
		Max: strconv.FormatInt(maxTime, 10),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get transactions: %w", err)
	}

	total := decimal.Zero
	for _, member := range members {
		amountStr := ""
		for i := len(member) - 1; i >= 0; i-- {
			if member[i] == '|' {
				amountStr = member[i+1:]
				break
			}
		}
		if amount, err := decimal.NewFromString(amountStr); err == nil {
			total = total.Add(amount)
		}
	}

	return total, nil
}

// DeviceCache tracks device usage patterns as a per-user Redis set.
type DeviceCache struct {
	client *Client
}

// NewDeviceCache creates a new device cache.
func NewDeviceCache(client *Client) *DeviceCache {
	return &DeviceCache{client: client}
}

func deviceKey(userID string) string {
	return fmt.Sprintf("devices:user:%s", userID)
}

// RecordDeviceUsage records device usage for a user.
func (c *DeviceCache) RecordDeviceUsage(ctx context.Context, userID, fingerprint string) error {
	key := deviceKey(userID)
	if err := c.client.SAdd(ctx, key, fingerprint); err != nil {
		return fmt.Errorf("failed to record device: %w", err)
	}
	if err := c.client.Expire(ctx, key, 30*24*time.Hour); err != nil {
		return fmt.Errorf("failed to set expiration: %w", err)
	}
	return nil
}

// KnownDevices returns the set of fingerprints observed for this user.
func (c *DeviceCache) KnownDevices(ctx context.Context, userID string) (map[string]struct{}, error) {
	key := deviceKey(userID)
	members, err := c.client.SMembers(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set, nil
}
