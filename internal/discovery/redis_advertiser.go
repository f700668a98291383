package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stationv/relay/internal/config"
	"github.com/stationv/relay/internal/log"
)

type RedisAdvertiser struct {
	client            *redis.Client
	instanceID        string
	advertiseAddress  string
	prefix            string
	keyTTL            time.Duration
	heartbeatInterval time.Duration
	cancel            context.CancelFunc
}

func NewRedisAdvertiser(cfg config.DiscoveryConfig, instanceID string) (*RedisAdvertiser, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAdvertiser{
		client:            client,
		instanceID:        instanceID,
		advertiseAddress:  cfg.AdvertiseAddress,
		prefix:            cfg.Prefix,
		keyTTL:            cfg.KeyTTL,
		heartbeatInterval: cfg.HeartbeatInterval,
	}, nil
}

func (r *RedisAdvertiser) key() string {
	return fmt.Sprintf("%s:instance:%s", r.prefix, r.instanceID)
}

// Announce writes the advertise address under a TTL key. Without heartbeat
// refreshes the key expires, so a crashed relay disappears on its own.
func (r *RedisAdvertiser) Announce(ctx context.Context) error {
	if err := r.client.Set(ctx, r.key(), r.advertiseAddress, r.keyTTL).Err(); err != nil {
		return fmt.Errorf("failed to announce instance: %w", err)
	}

	l := log.L()
	l.Info().Str("instance_id", r.instanceID).Str("address", r.advertiseAddress).Msg("instance announced")
	return nil
}

func (r *RedisAdvertiser) StartHeartbeat(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.heartbeatLoop(ctx)
	l := log.L()
	l.Info().Dur("interval", r.heartbeatInterval).Dur("ttl", r.keyTTL).Msg("discovery heartbeat started")
	return nil
}

func (r *RedisAdvertiser) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(r.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Announce(ctx); err != nil {
				l := log.L()
				l.Error().Err(err).Msg("failed to refresh announcement")
			}
		}
	}
}

func (r *RedisAdvertiser) StopHeartbeat() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *RedisAdvertiser) Close() error {
	r.StopHeartbeat()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("failed to remove announcement")
	}
	return r.client.Close()
}
