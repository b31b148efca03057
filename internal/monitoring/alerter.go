package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertPartialRate     AlertType = "profile_partial_rate"
	AlertProviderFailing AlertType = "provider_failing"
	AlertSanctionsHit    AlertType = "sanctions_hit"
)

// minProfilesForRate keeps a handful of builds from tripping rate alerts.
const minProfilesForRate = 5

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

	if snap.ProfilesTotal >= minProfilesForRate && snap.PartialRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertPartialRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"%.1f%% of profiles had provider failures, threshold %.1f%% (%d of %d in last %dh)",
				snap.PartialRate*100, a.cfg.FailureRateThreshold*100,
				snap.ProfilesPartial, snap.ProfilesTotal, snap.LookbackHours,
			),
			Details: map[string]any{
				"partial_rate": snap.PartialRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"partial":      snap.ProfilesPartial,
				"total":        snap.ProfilesTotal,
			},
			Timestamp: now,
		})
	}

	// A provider failing in every profile of the window is likely down.
	var failing []string
	for name, n := range snap.ProviderFailures {
		if snap.ProfilesTotal >= minProfilesForRate && n >= snap.ProfilesTotal {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)
	for _, name := range failing {
		alerts = append(alerts, Alert{
			Type:     AlertProviderFailing,
			Severity: "medium",
			Message: fmt.Sprintf("provider %s failed in every profile built in last %dh",
				name, snap.LookbackHours),
			Details: map[string]any{
				"provider": name,
				"failures": snap.ProviderFailures[name],
				"profiles": snap.ProfilesTotal,
			},
			Timestamp: now,
		})
	}

	if snap.SanctionsHits > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertSanctionsHit,
			Severity: "high",
			Message: fmt.Sprintf("%d profile(s) with sanctions matches in last %dh: %s",
				snap.SanctionsHits, snap.LookbackHours, strings.Join(snap.SanctionsSubjects, ", ")),
			Details: map[string]any{
				"count":    snap.SanctionsHits,
				"subjects": snap.SanctionsSubjects,
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
