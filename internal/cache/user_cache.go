package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"airdrop-tracker/internal/model"
)

// UserCache keeps resolved users in Redis so the authorization middleware does
// not hit MySQL on every request. Approval changes and deletions invalidate
// the entry; the short TTL bounds staleness in every other case.
type UserCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewUserCache(client *redisv9.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &UserCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *UserCache) Get(ctx context.Context, userID string) (*model.User, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get user failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached user failed: %w", err)
	}
	return &user, true, nil
}

func (c *UserCache) Set(ctx context.Context, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(user.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user failed: %w", err)
	}
	return nil
}

func (c *UserCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete user failed: %w", err)
	}
	return nil
}

func (c *UserCache) key(userID string) string {
	return fmt.Sprintf("auth:user:%s", userID)
}
