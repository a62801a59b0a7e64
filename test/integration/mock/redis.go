package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisClient *redis.Client

// NewRedis starts an embedded redis server once and returns a client bound
// to it.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		mini, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr: mini.Addr(),
		})
	})
	return redisClient
}

// ClearRedis drops every key so rate-limit counters do not leak between
// scenarios.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}
