package database

import (
	"EventManagement/configs"
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

var (
	redisClient *RedisClient
	redisOnce   sync.Once
)

func ConnectRedis() error {
	var err error
	redisOnce.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:     configs.GetRedisAddr(),
			Password: configs.GetRedisPassword(),
			DB:       configs.GetRedisDB(),
		})

		ctx := context.Background()
		if _, err = client.Ping(ctx).Result(); err != nil {
			log.Printf("Kết nối Redis thất bại: %v", err)
			return
		}

		log.Println("Kết nối Redis thành công!")
		redisClient = &RedisClient{
			Client: client,
			Ctx:    ctx,
		}
	})
	return err
}

func GetRedisClient() *RedisClient {
	return redisClient
}
