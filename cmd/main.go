package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stationv/relay/internal/config"
	"github.com/stationv/relay/internal/discovery"
	"github.com/stationv/relay/internal/firehose"
	"github.com/stationv/relay/internal/handler"
	"github.com/stationv/relay/internal/hub"
	"github.com/stationv/relay/internal/log"
	"github.com/stationv/relay/internal/service"
	"github.com/stationv/relay/internal/state"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := log.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize structured logger
	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "stationv-relay"})
	logger := log.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Str("ws_path", cfg.Server.WSPath).Msg("starting relay")

	// Relay state and connection hub
	st := state.New(cfg.Relay.HistoryLimit)
	wsHub := hub.NewHub()

	// Optional Kafka firehose
	var producer firehose.Producer
	if cfg.Firehose.Enabled {
		p, err := firehose.NewConfluentProducer(cfg.Firehose.Brokers, cfg.Firehose.Topic, cfg.Firehose.Partitions)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create firehose producer, message export disabled")
		} else {
			producer = p
			logger.Info().Str("topic", cfg.Firehose.Topic).Msg("firehose producer started")
		}
	}

	relay := service.NewRelayService(st, wsHub, producer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional Redis instance advertisement
	var advertiser discovery.Advertiser
	if cfg.Discovery.Enabled {
		adv, err := discovery.NewRedisAdvertiser(cfg.Discovery, uuid.New().String())
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create redis advertiser, discovery disabled")
		} else {
			advertiser = adv
			if err := adv.Announce(ctx); err != nil {
				logger.Warn().Err(err).Msg("initial announcement failed")
			}
			if err := adv.StartHeartbeat(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to start discovery heartbeat")
			}
		}
	}

	// Create handlers
	wsHandler := handler.NewWSHandler(wsHub, relay, cfg.Server, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(st)

	// Setup routes
	router := mux.NewRouter()

	// WebSocket endpoint
	wsHandler.RegisterRoutes(router)

	// HTTP API endpoints
	router.HandleFunc("/api/v1/channels", httpHandler.GetChannels).Methods("GET")
	router.HandleFunc("/api/v1/channels/{channel}/members", httpHandler.GetMembers).Methods("GET")
	router.HandleFunc("/health", httpHandler.HealthCheck).Methods("GET")

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      log.HTTPMiddleware(logger)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", addr).Msg("relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down relay")

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		cancel() // stop discovery heartbeat

		if advertiser != nil {
			advertiser.Close()
		}

		wsHub.Stop() // close all WS clients

		if producer != nil {
			producer.Close() // flush in-flight firehose records
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	select {
	case <-shutdownDone:
		logger.Info().Msg("relay stopped")
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("shutdown timed out after 30s")
	}
}
