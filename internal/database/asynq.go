package database

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/riedtal/admission-backend/internal/config"
	"github.com/rs/zerolog"
)

// AsynqRedisOpt parses the configured Redis URL into an asynq connection
// option. Asynq manages its own connections; the option shares the same
// Redis instance as the go-redis client.
func AsynqRedisOpt(cfg *config.Config) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis URL: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	}, nil
}

// NewAsynqClient creates the task enqueue client used to schedule the
// delayed payment checks.
func NewAsynqClient(cfg *config.Config, log zerolog.Logger) (*asynq.Client, error) {
	opt, err := AsynqRedisOpt(cfg)
	if err != nil {
		return nil, err
	}

	client := asynq.NewClient(opt)

	log.Info().
		Str("addr", opt.Addr).
		Msg("Asynq client initialized")

	return client, nil
}
