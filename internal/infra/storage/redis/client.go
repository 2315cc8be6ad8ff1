package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient builds the shared connection used by the session and idempotency
// stores.
func NewClient(addr, password string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})
}

func Ping(ctx context.Context, client *goredis.Client) error {
	return client.Ping(ctx).Err()
}
