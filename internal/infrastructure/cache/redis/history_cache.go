package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// HistoryCache tracks the frequency-ranked location and hour-of-day
// histograms the historical aggregator exposes as typical_locations
// and typical_hours. Both are Redis hashes (field -> count) with a
// rolling 30-day TTL refreshed on every write; hashes rather than sets
// so frequency, not mere membership, can be ranked.
type HistoryCache struct {
	client *Client
}

// NewHistoryCache creates a new history cache.
func NewHistoryCache(client *Client) *HistoryCache {
	return &HistoryCache{client: client}
}

const historyRetention = 30 * 24 * time.Hour

func locationKey(userID string) string {
	return fmt.Sprintf("locations:user:%s", userID)
}

func hourKey(userID string) string {
	return fmt.Sprintf("hours:user:%s", userID)
}

func locationField(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// RecordLocation increments the frequency count for a coordinate pair.
func (c *HistoryCache) RecordLocation(ctx context.Context, userID string, lat, lon float64) error {
	key := locationKey(userID)
	field := locationField(lat, lon)
	if err := c.client.HIncrBy(ctx, key, field, 1); err != nil {
		return fmt.Errorf("failed to record location: %w", err)
	}
	return c.client.Expire(ctx, key, historyRetention)
}

// TypicalLocations returns the top 10 coordinate pairs by frequency.
func (c *HistoryCache) TypicalLocations(ctx context.Context, userID string) ([]risk.LocationFrequency, error) {
	key := locationKey(userID)
	raw, err := c.client.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load typical locations: %w", err)
	}

	out := make([]risk.LocationFrequency, 0, len(raw))
	for field, countStr := range raw {
		var lat, lon float64
		if _, err := fmt.Sscanf(field, "%f,%f", &lat, &lon); err != nil {
			continue
		}
		count, _ := strconv.Atoi(countStr)
		out = append(out, risk.LocationFrequency{Latitude: lat, Longitude: lon, Frequency: count})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

// RecordHour increments the frequency count for an hour-of-day bucket.
func (c *HistoryCache) RecordHour(ctx context.Context, userID string, hour int) error {
	key := hourKey(userID)
	if err := c.client.HIncrBy(ctx, key, strconv.Itoa(hour), 1); err != nil {
		return fmt.Errorf("failed to record hour: %w", err)
	}
	return c.client.Expire(ctx, key, historyRetention)
}

// TypicalHours returns the hour -> count histogram over the retention window.
func (c *HistoryCache) TypicalHours(ctx context.Context, userID string) (map[int]int, error) {
	key := hourKey(userID)
	raw, err := c.client.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load typical hours: %w", err)
	}

	out := make(map[int]int, len(raw))
	for field, countStr := range raw {
		hour, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		count, _ := strconv.Atoi(countStr)
		out[hour] = count
	}
	return out, nil
}
