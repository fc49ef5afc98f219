package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/newslens/backend/pkg/logger"
)

// Client caches retrieval evidence and feedback aggregates. A nil *Client is
// valid: every method becomes a no-op miss, so callers never branch on
// whether caching is configured.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// SetEvidence caches the ranked evidence doc ids for a question hash.
func (c *Client) SetEvidence(ctx context.Context, questionHash string, docIDs []string) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(docIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("evidence:%s", questionHash), data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set evidence cache: %w", err)
	}

	logger.Debug("Evidence cached", zap.String("question_hash", questionHash))
	return nil
}

// GetEvidence returns the cached evidence doc ids, or found=false on a miss.
func (c *Client) GetEvidence(ctx context.Context, questionHash string) ([]string, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, fmt.Sprintf("evidence:%s", questionHash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get evidence cache: %w", err)
	}

	var docIDs []string
	err = json.Unmarshal(data, &docIDs)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal evidence: %w", err)
	}

	logger.Debug("Evidence cache hit", zap.String("question_hash", questionHash))
	return docIDs, true, nil
}

// SetAggregate caches the like/dislike counts for a response.
func (c *Client) SetAggregate(ctx context.Context, responseID string, likes, dislikes int) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(map[string]int{"likes": likes, "dislikes": dislikes})
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("aggregate:%s", responseID), data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set aggregate cache: %w", err)
	}

	return nil
}

// GetAggregate returns cached like/dislike counts, or found=false on a miss.
func (c *Client) GetAggregate(ctx context.Context, responseID string) (likes, dislikes int, found bool, err error) {
	if c == nil {
		return 0, 0, false, nil
	}

	data, err := c.client.Get(ctx, fmt.Sprintf("aggregate:%s", responseID)).Bytes()
	if err == redis.Nil {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to get aggregate cache: %w", err)
	}

	var counts map[string]int
	err = json.Unmarshal(data, &counts)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to unmarshal aggregate: %w", err)
	}

	return counts["likes"], counts["dislikes"], true, nil
}

// InvalidateAggregate drops the cached counts after a feedback write.
func (c *Client) InvalidateAggregate(ctx context.Context, responseID string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf("aggregate:%s", responseID)).Err()
}
