package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Relay     RelayConfig
	Discovery DiscoveryConfig
	Firehose  FirehoseConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host   string
	Port   int
	WSPath string `mapstructure:"ws_path"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type RelayConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// DiscoveryConfig controls optional instance advertisement in Redis so
// clients can locate a live relay. Chat state never leaves the process.
type DiscoveryConfig struct {
	Enabled           bool
	Address           string
	Password          string
	DB                int
	Prefix            string
	AdvertiseAddress  string        `mapstructure:"advertise_address"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	KeyTTL            time.Duration `mapstructure:"key_ttl"`
}

// FirehoseConfig controls the optional Kafka export of posted messages.
type FirehoseConfig struct {
	Enabled    bool
	Brokers    string
	Topic      string
	Partitions int
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, rely on defaults and env vars.
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ws_path", "/irc")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("relay.history_limit", 100)
	v.SetDefault("discovery.enabled", false)
	v.SetDefault("discovery.address", "localhost:6379")
	v.SetDefault("discovery.password", "")
	v.SetDefault("discovery.db", 0)
	v.SetDefault("discovery.prefix", "stationv:relay")
	v.SetDefault("discovery.advertise_address", "localhost:8080")
	v.SetDefault("discovery.heartbeat_interval", "10s")
	v.SetDefault("discovery.key_ttl", "30s")
	v.SetDefault("firehose.enabled", false)
	v.SetDefault("firehose.brokers", "localhost:9092")
	v.SetDefault("firehose.topic", "stationv-messages")
	v.SetDefault("firehose.partitions", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.ws_path", "WS_PATH")
	v.BindEnv("discovery.enabled", "DISCOVERY_ENABLED")
	v.BindEnv("discovery.address", "REDIS_ADDRESS")
	v.BindEnv("discovery.password", "REDIS_PASSWORD")
	v.BindEnv("discovery.advertise_address", "ADVERTISE_ADDRESS")
	v.BindEnv("firehose.enabled", "FIREHOSE_ENABLED")
	v.BindEnv("firehose.brokers", "KAFKA_BROKERS")
	v.BindEnv("firehose.topic", "KAFKA_TOPIC")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Discovery.HeartbeatInterval = parseDuration(v, "discovery.heartbeat_interval", 10*time.Second)
	cfg.Discovery.KeyTTL = parseDuration(v, "discovery.key_ttl", 30*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
