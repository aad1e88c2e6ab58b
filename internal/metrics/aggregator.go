package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Aggregator periodically copies point-in-time readings into gauges
type Aggregator struct {
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	probes []probe
}

type probe struct {
	gauge prometheus.Gauge
	read  func() float64
}

// NewAggregator creates a new metrics aggregator worker
func NewAggregator(logger *slog.Logger, interval time.Duration) *Aggregator {
	if interval == 0 {
		interval = 15 * time.Second
	}

	return &Aggregator{
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Track registers a reading that is written to gauge on every tick
func (a *Aggregator) Track(gauge prometheus.Gauge, read func() float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.probes = append(a.probes, probe{gauge: gauge, read: read})
}

// Start begins the aggregation worker
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("metrics aggregator started", "interval", a.interval)

	a.aggregate()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("metrics aggregator stopped")
			return
		case <-a.done:
			a.logger.Info("metrics aggregator stopped")
			return
		case <-ticker.C:
			a.aggregate()
		}
	}
}

// Stop gracefully shuts down the aggregator
func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
}

func (a *Aggregator) aggregate() {
	a.mu.Lock()
	probes := make([]probe, len(a.probes))
	copy(probes, a.probes)
	a.mu.Unlock()

	for _, p := range probes {
		p.gauge.Set(p.read())
	}
}
