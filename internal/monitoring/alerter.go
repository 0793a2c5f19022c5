package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/facturio/siret-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertBlockedRate         AlertType = "blocked_rate"
	AlertRegistryUnavailable AlertType = "registry_unavailable"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// A high blocked rate usually means malformed source data upstream,
	// not a sudden wave of fraudulent identifiers.
	if snap.Total >= 5 && snap.BlockedRate > a.cfg.BlockedRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertBlockedRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Blocked rate %.1f%% exceeds threshold %.1f%% (%d blocked / %d validated in last %dh)",
				snap.BlockedRate*100, a.cfg.BlockedRateThreshold*100,
				snap.Blocked, snap.Total, snap.LookbackHours,
			),
			Details: map[string]any{
				"blocked_rate": snap.BlockedRate,
				"threshold":    a.cfg.BlockedRateThreshold,
				"blocked":      snap.Blocked,
				"total":        snap.Total,
			},
			Timestamp: now,
		})
	}

	// Sustained registry unavailability means every validation degrades to
	// best-effort and stops catching closed establishments.
	if snap.Total >= 5 && snap.UnavailableRate > 0.5 {
		alerts = append(alerts, Alert{
			Type:     AlertRegistryUnavailable,
			Severity: "high",
			Message: fmt.Sprintf(
				"SIRENE registry unavailable for %.1f%% of lookups in last %dh",
				snap.UnavailableRate*100, snap.LookbackHours,
			),
			Details: map[string]any{
				"unavailable_rate": snap.UnavailableRate,
				"unavailable":      snap.RegistryUnavailable,
				"total":            snap.Total,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
