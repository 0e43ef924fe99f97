package config

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func NewAsynqClient(v *viper.Viper) *asynq.Client {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	addr := fmt.Sprintf("%s:%d", host, port)

	redisOpt := asynq.RedisClientOpt{
		Addr: addr,
	}

	return asynq.NewClient(redisOpt)
}

func NewAsynqServer(v *viper.Viper) (*asynq.Server, *asynq.ServeMux) {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	redisOpt := asynq.RedisClientOpt{
		Addr: fmt.Sprintf("%s:%d", host, port),
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: v.GetInt("asynq.concurrency"),
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	})

	return srv, asynq.NewServeMux()
}
