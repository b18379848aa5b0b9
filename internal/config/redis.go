package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var (
	Ctx   = context.Background()
	Redis *redis.Client
)

// InitRedis connects the session flag store. The dashboard cannot run
// without it.
func InitRedis(cfg *Config) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := Redis.Ping(Ctx).Err(); err != nil {
		log.Fatal("redis unreachable: ", err)
	}

	log.Println("Redis connected (DB", cfg.RedisDB, ")")
}
