package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes when the breaker opens and how long it stays open.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	MinRequests         uint32
	FailureRatio        float64
	Interval            time.Duration
	Timeout             time.Duration
	MaxRequests         uint32
}

// DefaultBreakerConfig opens after five straight failures and probes again after timeout.
func DefaultBreakerConfig(timeout time.Duration) BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		MinRequests:         10,
		FailureRatio:        0.5,
		Interval:            time.Minute,
		Timeout:             timeout,
		MaxRequests:         1,
	}
}

// BreakerGateway stops calling a failing downstream gateway until it recovers.
type BreakerGateway struct {
	name    string
	next    portssvc.NotificationGateway
	breaker *gobreaker.CircuitBreaker
}

var _ portssvc.NotificationGateway = (*BreakerGateway)(nil)

func NewBreakerGateway(name string, next portssvc.NotificationGateway, cfg BreakerConfig, logger *slog.Logger) *BreakerGateway {
	settings := gobreaker.Settings{
		Name:        "notifier-" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Notifier circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &BreakerGateway{name: name, next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (g *BreakerGateway) Notify(ctx context.Context, userID, message string) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.next.Notify(ctx, userID, message)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: notifier %s unavailable: %v", apperrors.ErrExternal, g.name, err)
	}
	return err
}

// State reports the breaker state, e.g. for health output.
func (g *BreakerGateway) State() gobreaker.State {
	return g.breaker.State()
}
