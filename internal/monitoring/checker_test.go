package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/config"
	"github.com/sells-group/profile-cli/internal/store"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	cfg := config.MonitoringConfig{
		CheckIntervalSecs:    1,
		LookbackWindowHours:  24,
		FailureRateThreshold: 0.10,
	}
	checker := NewChecker(newTestCollector(&fakeLister{}), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("checker did not stop after cancel")
	}
}

func TestChecker_CheckSendsAlerts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.MonitoringConfig{
		WebhookURL:           srv.URL,
		LookbackWindowHours:  24,
		FailureRateThreshold: 0.5,
	}
	st := &fakeLister{snaps: []store.Snapshot{snapshotAt("Globex", time.Hour, nil, true)}}
	checker := NewChecker(newTestCollector(st), NewAlerter(cfg), cfg)

	sent := checker.Check(context.Background(), zap.NewNop())
	assert.Equal(t, 1, sent)
	assert.Equal(t, int32(1), hits.Load())
}

func TestChecker_CheckCollectError(t *testing.T) {
	cfg := config.MonitoringConfig{LookbackWindowHours: 24}
	st := &fakeLister{listErr: assert.AnError}
	checker := NewChecker(newTestCollector(st), NewAlerter(cfg), cfg)

	assert.Zero(t, checker.Check(context.Background(), zap.NewNop()))
}
