package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"interviewai-backend/internal/app"
)

// SummaryCache keeps per-user privacy data summaries in redis with a
// short TTL. Writers invalidate on every deletion or policy change, so
// staleness is bounded by the TTL.
type SummaryCache struct {
	client     *redisv9.Client
	summaryTTL time.Duration
}

func NewSummaryCache(client *redisv9.Client, summaryTTL time.Duration) *SummaryCache {
	if summaryTTL <= 0 {
		summaryTTL = 60 * time.Second
	}
	return &SummaryCache{
		client:     client,
		summaryTTL: summaryTTL,
	}
}

func (c *SummaryCache) GetSummary(ctx context.Context, userID uint) (*app.DataSummary, bool, error) {
	raw, err := c.client.Get(ctx, c.summaryKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get summary failed: %w", err)
	}

	var summary app.DataSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached summary failed: %w", err)
	}
	return &summary, true, nil
}

func (c *SummaryCache) SetSummary(ctx context.Context, userID uint, summary *app.DataSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.summaryKey(userID), payload, c.summaryTTL).Err(); err != nil {
		return fmt.Errorf("redis set summary failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) DeleteSummary(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.summaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete summary failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) summaryKey(userID uint) string {
	return fmt.Sprintf("privacy:summary:%d", userID)
}
