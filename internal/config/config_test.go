package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/irc", cfg.Server.WSPath)

	assert.Equal(t, 30*time.Second, cfg.WebSocket.PingInterval)
	assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 10*time.Second, cfg.WebSocket.WriteWait)
	assert.Equal(t, int64(4096), cfg.WebSocket.MaxMessageSize)

	assert.Equal(t, 100, cfg.Relay.HistoryLimit)

	assert.False(t, cfg.Discovery.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Discovery.Address)
	assert.Equal(t, "stationv:relay", cfg.Discovery.Prefix)
	assert.Equal(t, 10*time.Second, cfg.Discovery.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.Discovery.KeyTTL)

	assert.False(t, cfg.Firehose.Enabled)
	assert.Equal(t, "localhost:9092", cfg.Firehose.Brokers)
	assert.Equal(t, "stationv-messages", cfg.Firehose.Topic)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WS_PATH", "/chat")
	t.Setenv("DISCOVERY_ENABLED", "true")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6379")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/chat", cfg.Server.WSPath)
	assert.True(t, cfg.Discovery.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.Discovery.Address)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.Firehose.Brokers)
}
