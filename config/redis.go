package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Locker *redislock.Client
var Ctx = context.Background()

func ConnectRedis() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		slog.Warn("environment variable REDIS_ADDR is not set, caching and account locks are disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		RDB = nil
		return
	}

	// The locker serializes ledger recomputation per account scope.
	Locker = redislock.New(RDB)
	slog.Info("connected to Redis")
}
