// Package notification delivers budget overrun alerts to users.
package notification

import (
	"context"
	"errors"
	"log/slog"

	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/middleware"
)

// LogGateway writes alerts to the request logger. It is the fallback when no
// external channel is configured.
type LogGateway struct{}

var _ portssvc.NotificationGateway = LogGateway{}

func (LogGateway) Notify(ctx context.Context, userID, message string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Budget alert", slog.String("user_id", userID), slog.String("message", message))
	return nil
}

// FanOut delivers to every gateway and joins their errors.
type FanOut []portssvc.NotificationGateway

var _ portssvc.NotificationGateway = FanOut(nil)

func (f FanOut) Notify(ctx context.Context, userID, message string) error {
	var errs []error
	for _, gw := range f {
		if err := gw.Notify(ctx, userID, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
