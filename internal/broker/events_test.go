package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-revenue-service/internal/models"
)

func messageFor(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestHandleMessageDispatchesCompleted(t *testing.T) {
	eh := NewEventHandler()

	var got *models.ScheduleCompletedEvent
	eh.OnScheduleCompleted(func(_ context.Context, e *models.ScheduleCompletedEvent) error {
		got = e
		return nil
	})

	event := &models.ScheduleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeScheduleCompleted,
			Timestamp: time.Now(),
		},
		ScheduleID:              10,
		TourID:                  5,
		BookingsCount:           2,
		TotalRevenueDistributed: decimal.NewFromInt(1_000_000),
		PartnerShares: []models.PartnerShareData{
			{PartnerID: 101, PartnerType: "accommodation", Amount: decimal.NewFromInt(1_000_000)},
		},
	}

	err := eh.HandleMessage(context.Background(), messageFor(t, event))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.ScheduleID)
	require.Len(t, got.PartnerShares, 1)
	assert.True(t, got.PartnerShares[0].Amount.Equal(decimal.NewFromInt(1_000_000)))
}

func TestHandleMessageDispatchesStartedAndCancelled(t *testing.T) {
	eh := NewEventHandler()

	var started, cancelled bool
	eh.OnScheduleStarted(func(_ context.Context, e *models.ScheduleStartedEvent) error {
		started = true
		return nil
	})
	eh.OnScheduleCancelled(func(_ context.Context, e *models.ScheduleCancelledEvent) error {
		cancelled = true
		return nil
	})

	err := eh.HandleMessage(context.Background(), messageFor(t, &models.ScheduleStartedEvent{
		BaseEvent:  models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeScheduleStarted},
		ScheduleID: 10,
	}))
	require.NoError(t, err)
	assert.True(t, started)

	err = eh.HandleMessage(context.Background(), messageFor(t, &models.ScheduleCancelledEvent{
		BaseEvent:  models.BaseEvent{EventID: "evt-3", EventType: models.EventTypeScheduleCancelled},
		ScheduleID: 10,
	}))
	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestHandleMessageUnknownTypeIsIgnored(t *testing.T) {
	eh := NewEventHandler()

	err := eh.HandleMessage(context.Background(),
		kafka.Message{Value: []byte(`{"event_id": "evt-4", "event_type": "SOMETHING_ELSE"}`)})
	require.NoError(t, err)
}

func TestHandleMessageBadPayload(t *testing.T) {
	eh := NewEventHandler()

	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	require.Error(t, err)
}
