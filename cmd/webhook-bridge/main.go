package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/db"
	"github.com/bizcopilot/backend/internal/events"
	"go.uber.org/zap"
)

// Webhook Bridge — optional small service that subscribes to agent
// events and forwards them to an external webhook consumer.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WebhookForwardURL == "" {
		log.Fatal("WEBHOOK_FORWARD_URL is required")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	client := &http.Client{Timeout: 10 * time.Second}

	log.Info("webhook-bridge started", zap.String("target", cfg.WebhookForwardURL))

	_ = subscriber.Subscribe(ctx, events.StreamAgent, func(event events.Event) {
		log.Info("forwarding event", zap.String("type", event.Type))
		forward(client, cfg.WebhookForwardURL, event, log)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down webhook-bridge")
	cancel()
}

func forward(client *http.Client, url string, event events.Event, log *zap.Logger) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	resp, err := client.Post(url, "application/json", strings.NewReader(string(body)))
	if err != nil {
		log.Warn("failed to forward event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Warn("webhook returned non-2xx", zap.Int("status", resp.StatusCode))
	}
}
