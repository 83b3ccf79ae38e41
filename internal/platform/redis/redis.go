package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The client only backs the resolved-user cache, so the timeouts stay tight:
// a slow Redis must degrade to MySQL lookups, not stall the request path.
const (
	dialTimeout = 3 * time.Second
	opTimeout   = 2 * time.Second
	pingTimeout = 3 * time.Second
)

// New connects, pings, and hands back a ready client. Startup fails fast on
// an unreachable instance rather than surfacing cache errors per request.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
