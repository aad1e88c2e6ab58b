package metrics

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAggregator_UpdatesTrackedGauges(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_clients"})
	var clients atomic.Int64
	clients.Store(3)

	agg := NewAggregator(slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)
	agg.Track(gauge, func() float64 { return float64(clients.Load()) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go agg.Start(ctx)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(gauge) == 3
	}, time.Second, 5*time.Millisecond)

	clients.Store(7)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(gauge) == 7
	}, time.Second, 5*time.Millisecond)
}

func TestAggregator_StopIsIdempotent(t *testing.T) {
	agg := NewAggregator(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)

	finished := make(chan struct{})
	go func() {
		agg.Start(context.Background())
		close(finished)
	}()

	agg.Stop()
	agg.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("aggregator did not stop")
	}
}

func TestNewAggregator_DefaultInterval(t *testing.T) {
	agg := NewAggregator(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	assert.Equal(t, 15*time.Second, agg.interval)
}
