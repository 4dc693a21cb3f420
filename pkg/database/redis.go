package database

import (
	"context"
	"fmt"
	"item_bank_backend/internal/config"
	applog "item_bank_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// InitRedis 未启用时返回 nil，调用方回退到进程内锁
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	applog.Log.Info("Redis connection established")
	return rdb, nil
}
