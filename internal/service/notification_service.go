package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bloodbound-service/internal/config"
	"github.com/spec-kit/bloodbound-service/internal/events"
)

// NotificationService forwards profile lifecycle events to a webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: timeout},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventProfileCreated, n.handleProfileEvent)
	n.dispatcher.Subscribe(events.EventProfileUpdated, n.handleProfileEvent)
}

func (n *NotificationService) handleProfileEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("profile event",
		zap.String("type", string(event.Type)),
		zap.String("collection", string(event.Collection)),
		zap.String("email", event.Email))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Debug("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Debug("webhook rejected", zap.Int("status", resp.StatusCode))
	}
}
