// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"log/slog"

	"meetup/internal/database"
	"meetup/internal/middleware"
	"meetup/internal/models"
	"meetup/internal/notifications"
	"meetup/internal/observability"
)

// EventPublisher receives domain events. Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev notifications.Event) error
}

// storeError turns a repository error into an AppError. Unique violations
// become CONFLICT with conflictMsg.
func storeError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if conflictMsg != "" && database.IsUniqueViolation(err) {
		return models.NewConflictError(conflictMsg, err)
	}
	return models.NewInternalError(err)
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}

func publish(ctx context.Context, events EventPublisher, ev notifications.Event) {
	observability.DomainEvents.WithLabelValues(ev.Type).Inc()
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish domain event",
			slog.String("event", ev.Type), slog.String("error", err.Error()))
	}
}
