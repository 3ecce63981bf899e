package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// Client is the read-side Redis cache: the schedule summary listing and
// per-partner running revenue totals. Everything here is advisory; the
// engine's correctness never depends on Redis state.
type Client struct {
	rdb *redis.Client
}

const (
	summaryKeyPrefix  = "schedule:summary:"
	partnerRevenueKey = "partner:revenue"
)

// summaryFilters are the keys the summary cache can live under; used to
// invalidate them all in one round trip.
var summaryFilters = []string{"all", "pending", "ongoing", "completed", "cancelled"}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func summaryKey(statusFilter string) string {
	if statusFilter == "" {
		statusFilter = "all"
	}
	return summaryKeyPrefix + statusFilter
}

// GetSummaryCache returns the cached summary payload for a status
// filter, or nil on a miss.
func (c *Client) GetSummaryCache(ctx context.Context, statusFilter string) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, summaryKey(statusFilter)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// SetSummaryCache stores a summary payload under its status filter with
// a TTL.
func (c *Client) SetSummaryCache(ctx context.Context, statusFilter string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, summaryKey(statusFilter), payload, ttl).Err()
}

// InvalidateSummary drops every cached summary listing.
func (c *Client) InvalidateSummary(ctx context.Context) error {
	keys := make([]string, len(summaryFilters))
	for i, f := range summaryFilters {
		keys[i] = summaryKeyPrefix + f
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// IncrPartnerRevenue adds an accrued amount to a partner's running
// total.
func (c *Client) IncrPartnerRevenue(ctx context.Context, partnerID int64, amount decimal.Decimal) error {
	return c.rdb.HIncrByFloat(ctx, partnerRevenueKey, strconv.FormatInt(partnerID, 10), amount.InexactFloat64()).Err()
}

// GetPartnerRevenueTotal returns a partner's running total, with ok
// false on a miss.
func (c *Client) GetPartnerRevenueTotal(ctx context.Context, partnerID int64) (decimal.Decimal, bool, error) {
	val, err := c.rdb.HGet(ctx, partnerRevenueKey, strconv.FormatInt(partnerID, 10)).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	total, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, err
	}
	return total, true, nil
}
