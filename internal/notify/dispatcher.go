package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/campushub/portal-backend/internal/notifications"
	"github.com/campushub/portal-backend/internal/realtime"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
	"github.com/campushub/portal-backend/pkg/metrics"
)

// Store is the durable side of a dispatch.
type Store interface {
	Create(ctx context.Context, params notifications.CreateParams) (*models.Notification, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// Broadcaster is the live side of a dispatch.
type Broadcaster interface {
	Broadcast(room, event string, payload any)
}

// Dispatcher fans one domain event out: durable records first, live pushes
// second. The stored row is the source of truth; a push that reaches nobody is
// not a failure.
type Dispatcher struct {
	store       Store
	broadcaster Broadcaster
	logg        *logger.Logger
	metrics     *metrics.DispatchMetrics
}

// NewDispatcher wires dispatch dependencies.
func NewDispatcher(store Store, broadcaster Broadcaster, logg *logger.Logger, m *metrics.DispatchMetrics) (*Dispatcher, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification store required")
	}
	if broadcaster == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "broadcaster required")
	}
	return &Dispatcher{
		store:       store,
		broadcaster: broadcaster,
		logg:        logg,
		metrics:     m,
	}, nil
}

// Dispatch persists the event's notification records and then pushes the live
// payload. One recipient's failed insert does not block the others; the
// returned error aggregates every recipient that was skipped. When every
// insert fails the live push is suppressed, since nothing durable backs it.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}

	records := event.Notifications()
	persisted := make([]uuid.UUID, 0, len(records))

	var errs error
	for _, params := range records {
		if _, err := d.store.Create(ctx, params); err != nil {
			d.metrics.IncFailure(event.Name())
			errs = multierr.Append(errs, fmt.Errorf("recipient %s: %w", params.RecipientID, err))
			continue
		}
		d.metrics.IncPersisted(event.Name())
		persisted = append(persisted, params.RecipientID)
	}

	if len(records) > 0 && len(persisted) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "persist notifications")
	}

	for _, room := range event.Rooms() {
		d.broadcaster.Broadcast(room, event.Name(), event.Payload())
		d.metrics.IncPushed(event.Name())
	}

	d.pushUnreadCounts(ctx, event.Name(), persisted)

	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "persist notifications")
	}
	return nil
}

// DispatchAsync runs Dispatch on a detached context so the fan-out survives
// the originating request finishing. Errors are logged, never returned: the
// domain write that triggered the event has already committed.
func (d *Dispatcher) DispatchAsync(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := d.Dispatch(detached, event); err != nil {
			if d.logg != nil {
				scoped := detached
				if event != nil {
					scoped = d.logg.WithField(detached, "event", event.Name())
				}
				d.logg.Error(scoped, "notification dispatch failed", err)
			}
		}
	}()
}

// PushUnreadCount re-reads one recipient's unread count and pushes it to
// their personal room. Called after read-state changes so every connected
// device drops its badge, not just the one that clicked.
func (d *Dispatcher) PushUnreadCount(ctx context.Context, recipientID uuid.UUID) {
	d.pushUnreadCounts(ctx, EventUnreadCount, []uuid.UUID{recipientID})
}

// pushUnreadCounts refreshes each recipient's live badge after their record
// landed. Best effort; a failed count read only costs the hint.
func (d *Dispatcher) pushUnreadCounts(ctx context.Context, eventName string, recipientIDs []uuid.UUID) {
	for _, recipientID := range recipientIDs {
		count, err := d.store.UnreadCount(ctx, recipientID)
		if err != nil {
			if d.logg != nil {
				scoped := d.logg.WithFields(ctx, map[string]any{
					"event":   eventName,
					"user_id": recipientID.String(),
				})
				d.logg.Warn(scoped, "unread count refresh skipped")
			}
			continue
		}
		d.broadcaster.Broadcast(realtime.UserRoom(recipientID), EventUnreadCount, map[string]any{"count": count})
	}
}
