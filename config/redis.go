package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis kết nối đến Redis và ping kiểm tra
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Println("Kết nối Redis thành công:", res)
	return rdb, nil
}
