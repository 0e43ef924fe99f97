package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient redis.UniversalClient

// InitConnection dials redis according to the loaded config and panics on
// failure: the balance display cache is expected at startup.
func InitConnection() {
	if AppConfigData.UseCluster {
		redisClient = newClusterClient()
	} else {
		redisClient = newSingleClient()
	}

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		fmt.Println("REDIS ERROR:", err.Error())
		panic("cannot connect to Redis")
	}
}

func newSingleClient() redis.UniversalClient {
	var tlsConf *tls.Config
	if RedisConfigData.EnableTLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%v", RedisConfigData.Host, RedisConfigData.Port),
		Password:     RedisConfigData.Password,
		DB:           RedisConfigData.DB,
		TLSConfig:    tlsConf,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MaxRetries:   2,
	})
}

func newClusterClient() redis.UniversalClient {
	var tlsConf *tls.Config
	if RedisClusterConfigData.EnableTLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        RedisClusterConfigData.Hosts,
		Username:     RedisClusterConfigData.Username,
		Password:     RedisClusterConfigData.Password,
		TLSConfig:    tlsConf,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func GetClient() redis.UniversalClient {
	return redisClient
}
