package worker

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/store"
)

func newTestWorker(t *testing.T) (*ScheduleEventWorker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := store.NewStoreWithDB(sqlx.NewDb(db, "postgres"))
	return NewScheduleEventWorker(nil, st, nil), mock
}

func startedEvent(eventID string) *models.ScheduleStartedEvent {
	return &models.ScheduleStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   eventID,
			EventType: models.EventTypeScheduleStarted,
			Timestamp: time.Now(),
		},
		ScheduleID: 10,
		TourID:     5,
		Status:     models.ScheduleStatusOngoing,
	}
}

func TestHandleStartedMarksEventProcessed(t *testing.T) {
	w, mock := newTestWorker(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)")).
		WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO processed_events").
		WithArgs("evt-1", models.EventTypeScheduleStarted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := w.handleStarted(context.Background(), startedEvent("evt-1"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleStartedSkipsProcessedEvent(t *testing.T) {
	w, mock := newTestWorker(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)")).
		WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := w.handleStarted(context.Background(), startedEvent("evt-1"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCompletedWithoutRedis(t *testing.T) {
	w, mock := newTestWorker(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)")).
		WithArgs("evt-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO processed_events").
		WithArgs("evt-2", models.EventTypeScheduleCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.ScheduleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-2",
			EventType: models.EventTypeScheduleCompleted,
			Timestamp: time.Now(),
		},
		ScheduleID:    10,
		TourID:        5,
		BookingsCount: 1,
	}

	err := w.handleCompleted(context.Background(), event)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
