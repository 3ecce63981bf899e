package worker

import (
	"context"

	"tour-revenue-service/internal/broker"
	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/redisclient"
	"tour-revenue-service/internal/store"
	"tour-revenue-service/internal/util"

	"go.uber.org/zap"
)

// ScheduleEventWorker maintains the read side from schedule lifecycle
// events: it drops stale summary caches on every transition and keeps
// per-partner running revenue totals after completions. Events are
// deduplicated through the processed_events table, so replays after a
// consumer restart change nothing.
type ScheduleEventWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewScheduleEventWorker creates a new schedule event worker
func NewScheduleEventWorker(consumer *broker.Consumer, st *store.Store, redis *redisclient.Client) *ScheduleEventWorker {
	w := &ScheduleEventWorker{
		consumer: consumer,
		store:    st,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnScheduleStarted(w.handleStarted)
	eventHandler.OnScheduleCancelled(w.handleCancelled)
	eventHandler.OnScheduleCompleted(w.handleCompleted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ScheduleEventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting schedule event worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ScheduleEventWorker) Stop() error {
	w.logger.Info("Stopping schedule event worker")
	return w.consumer.Close()
}

func (w *ScheduleEventWorker) handleStarted(ctx context.Context, event *models.ScheduleStartedEvent) error {
	return w.withIdempotency(ctx, event.BaseEvent, func() error {
		w.invalidateSummary(ctx)
		return nil
	})
}

func (w *ScheduleEventWorker) handleCancelled(ctx context.Context, event *models.ScheduleCancelledEvent) error {
	return w.withIdempotency(ctx, event.BaseEvent, func() error {
		w.logger.Info("Schedule cancelled, refreshing read side",
			zap.Int64("schedule_id", event.ScheduleID),
			zap.Int("cancelled_bookings", event.CancelledBookings))
		w.invalidateSummary(ctx)
		return nil
	})
}

func (w *ScheduleEventWorker) handleCompleted(ctx context.Context, event *models.ScheduleCompletedEvent) error {
	return w.withIdempotency(ctx, event.BaseEvent, func() error {
		w.logger.Info("Schedule completed, updating partner totals",
			zap.Int64("schedule_id", event.ScheduleID),
			zap.Int("partners", len(event.PartnerShares)))

		if w.redis != nil {
			for _, share := range event.PartnerShares {
				if err := w.redis.IncrPartnerRevenue(ctx, share.PartnerID, share.Amount); err != nil {
					return err
				}
			}
		}
		w.invalidateSummary(ctx)
		return nil
	})
}

// withIdempotency runs fn once per event id. Returning an error before
// the processed mark leaves the message uncommitted, so the broker
// redelivers it.
func (w *ScheduleEventWorker) withIdempotency(ctx context.Context, base models.BaseEvent, fn func() error) error {
	processed, err := w.store.IsEventProcessed(ctx, base.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Debug("Event already processed", zap.String("event_id", base.EventID))
		return nil
	}

	if err := fn(); err != nil {
		return err
	}

	if err := w.store.MarkEventProcessed(ctx, base.EventID, base.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

func (w *ScheduleEventWorker) invalidateSummary(ctx context.Context) {
	if w.redis == nil {
		return
	}
	if err := w.redis.InvalidateSummary(ctx); err != nil {
		w.logger.Warn("Failed to invalidate summary cache", zap.Error(err))
	}
}
