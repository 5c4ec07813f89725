package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to Redis when an address is configured. It returns
// nil when Redis is not configured or does not answer a ping, and callers
// fall back to in-memory counters.
func NewRedisClient(cfg RedisConfig, log *logrus.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Addr).Warn("redis unavailable, using in-memory rate limiting")
		_ = client.Close()
		return nil
	}
	log.WithField("addr", cfg.Addr).Info("redis connected")
	return client
}
