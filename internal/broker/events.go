package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes schedule lifecycle events. Events are keyed
// by schedule id so one schedule's events stay ordered.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishScheduleStarted publishes a ScheduleStarted event
func (ep *EventPublisher) PublishScheduleStarted(ctx context.Context, event *models.ScheduleStartedEvent) error {
	return ep.producer.PublishEvent(ctx, scheduleKey(event.ScheduleID), event)
}

// PublishScheduleCancelled publishes a ScheduleCancelled event
func (ep *EventPublisher) PublishScheduleCancelled(ctx context.Context, event *models.ScheduleCancelledEvent) error {
	return ep.producer.PublishEvent(ctx, scheduleKey(event.ScheduleID), event)
}

// PublishScheduleCompleted publishes a ScheduleCompleted event
func (ep *EventPublisher) PublishScheduleCompleted(ctx context.Context, event *models.ScheduleCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, scheduleKey(event.ScheduleID), event)
}

func scheduleKey(scheduleID int64) string {
	return fmt.Sprintf("schedule-%d", scheduleID)
}

// EventHandler routes incoming schedule events to registered callbacks
type EventHandler struct {
	onStarted   func(context.Context, *models.ScheduleStartedEvent) error
	onCancelled func(context.Context, *models.ScheduleCancelledEvent) error
	onCompleted func(context.Context, *models.ScheduleCompletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnScheduleStarted registers a handler for ScheduleStarted events
func (eh *EventHandler) OnScheduleStarted(handler func(context.Context, *models.ScheduleStartedEvent) error) {
	eh.onStarted = handler
}

// OnScheduleCancelled registers a handler for ScheduleCancelled events
func (eh *EventHandler) OnScheduleCancelled(handler func(context.Context, *models.ScheduleCancelledEvent) error) {
	eh.onCancelled = handler
}

// OnScheduleCompleted registers a handler for ScheduleCompleted events
func (eh *EventHandler) OnScheduleCompleted(handler func(context.Context, *models.ScheduleCompletedEvent) error) {
	eh.onCompleted = handler
}

// HandleMessage routes messages to the appropriate handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeScheduleStarted:
		if eh.onStarted != nil {
			var event models.ScheduleStartedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ScheduleStarted event: %w", err)
			}
			return eh.onStarted(ctx, &event)
		}

	case models.EventTypeScheduleCancelled:
		if eh.onCancelled != nil {
			var event models.ScheduleCancelledEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ScheduleCancelled event: %w", err)
			}
			return eh.onCancelled(ctx, &event)
		}

	case models.EventTypeScheduleCompleted:
		if eh.onCompleted != nil {
			var event models.ScheduleCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ScheduleCompleted event: %w", err)
			}
			return eh.onCompleted(ctx, &event)
		}

	default:
		util.GetLogger().Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
