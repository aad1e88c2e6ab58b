package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/domain"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/metrics"
)

const (
	breakerFailureThreshold = 5
	breakerOpenTimeout      = time.Minute
)

// Dispatcher wraps the configured channel with a timeout, a circuit
// breaker and panic recovery. Dispatch never returns an error; every
// failure ends up as a warning on the outcome.
type Dispatcher struct {
	channel Channel
	timeout time.Duration
	logger  *slog.Logger
	cb      *gobreaker.CircuitBreaker[struct{}]
}

// NewDispatcher accepts a nil channel, in which case nothing is ever sent
func NewDispatcher(channel Channel, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		channel: channel,
		timeout: orDefault(timeout, 10*time.Second),
		logger:  logger,
	}
	if channel == nil {
		return d
	}

	name := channel.Name()
	metrics.AlertCircuitState.WithLabelValues(name).Set(0)

	d.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("alert circuit state changed",
				"channel", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.AlertCircuitState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return d
}

// Enabled reports whether a channel is configured
func (d *Dispatcher) Enabled() bool {
	return d.channel != nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (outcome domain.AlertOutcome) {
	if d.channel == nil {
		return domain.AlertOutcome{}
	}

	name := d.channel.Name()
	outcome = domain.AlertOutcome{Attempted: true, Channel: name}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("alert channel panicked",
				"channel", name,
				"analysis_id", msg.AnalysisID,
				"panic", r,
			)
			metrics.AlertDeliveries.WithLabelValues(name, "failure").Inc()
			outcome.Delivered = false
			outcome.Warning = fmt.Sprintf("alert delivery failed: %v", r)
		}
	}()

	// the alert outlives a client that hangs up mid-request
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	_, err := d.cb.Execute(func() (struct{}, error) {
		return struct{}{}, d.channel.Send(sendCtx, msg)
	})

	switch {
	case err == nil:
		metrics.AlertDeliveries.WithLabelValues(name, "success").Inc()
		d.logger.Info("alert delivered",
			"channel", name,
			"analysis_id", msg.AnalysisID,
			"risk_score", msg.Incident.RiskScore,
		)
		outcome.Delivered = true

	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.AlertDeliveries.WithLabelValues(name, "rejected").Inc()
		d.logger.Warn("alert rejected by circuit breaker", "channel", name, "analysis_id", msg.AnalysisID)
		outcome.Warning = "alert channel unavailable: " + err.Error()

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(sendCtx.Err(), context.DeadlineExceeded):
		metrics.AlertDeliveries.WithLabelValues(name, "failure").Inc()
		d.logger.Warn("alert delivery timed out", "channel", name, "timeout", d.timeout, "analysis_id", msg.AnalysisID)
		outcome.Warning = fmt.Sprintf("alert delivery timed out after %s", d.timeout)

	default:
		metrics.AlertDeliveries.WithLabelValues(name, "failure").Inc()
		d.logger.Warn("alert delivery failed", "channel", name, "analysis_id", msg.AnalysisID, "error", err)
		outcome.Warning = "alert delivery failed: " + err.Error()
	}

	return outcome
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
