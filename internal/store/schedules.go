package store

import (
	"context"
	"fmt"

	"tour-revenue-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// UpdateScheduleStatus flips a schedule's status. Callers hold the row
// lock from LockSchedule when the transition must be serialised.
func (s *Store) UpdateScheduleStatus(ctx context.Context, q sqlx.ExtContext, scheduleID int64, status string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE tour_schedules SET status = $1, updated_at = NOW() WHERE id = $2",
		status, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	return nil
}

// CancelConfirmedBookings cancels every confirmed booking on a schedule
// and returns how many were flipped.
func (s *Store) CancelConfirmedBookings(ctx context.Context, q sqlx.ExtContext, scheduleID int64) (int, error) {
	return s.flipConfirmedBookings(ctx, q, scheduleID, models.BookingStatusCancelled)
}

// CompleteConfirmedBookings completes every confirmed booking on a
// schedule and returns how many were flipped.
func (s *Store) CompleteConfirmedBookings(ctx context.Context, q sqlx.ExtContext, scheduleID int64) (int, error) {
	return s.flipConfirmedBookings(ctx, q, scheduleID, models.BookingStatusCompleted)
}

func (s *Store) flipConfirmedBookings(ctx context.Context, q sqlx.ExtContext, scheduleID int64, status string) (int, error) {
	res, err := q.ExecContext(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE schedule_id = $2 AND status = $3",
		status, scheduleID, models.BookingStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking statuses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ScheduleSummaries lists every active schedule holding at least one
// confirmed booking, ordered by departure. statusFilter narrows by
// schedule status when non-empty. Runs without locks; readers may see
// state that a concurrent transition has already left behind.
func (s *Store) ScheduleSummaries(ctx context.Context, statusFilter string) ([]models.ScheduleSummaryRow, error) {
	query := `
		SELECT s.id AS schedule_id, s.tour_id, t.name AS tour_name,
		       s.departure_at, s.return_at, s.max_slots, s.slots_booked,
		       GREATEST(s.max_slots - s.slots_booked, 0) AS slots_available,
		       s.status, COUNT(b.id) AS confirmed_bookings
		FROM tour_schedules s
		JOIN tours t ON t.id = s.tour_id
		JOIN bookings b ON b.schedule_id = s.id AND b.status = 'confirmed'
		WHERE s.is_active`
	args := []interface{}{}
	if statusFilter != "" {
		query += " AND s.status = $1"
		args = append(args, statusFilter)
	}
	query += `
		GROUP BY s.id, t.name
		ORDER BY s.departure_at ASC`

	var rows []models.ScheduleSummaryRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].MaxSlots > 0 {
			rows[i].OccupancyPct = float64(rows[i].SlotsBooked) / float64(rows[i].MaxSlots) * 100
		}
	}
	return rows, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
