package database

import (
	"context"
	"time"

	"undergraduation-admin/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func NewRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Log.Info("connected to Redis", zap.String("addr", addr))
	return rdb, nil
}
