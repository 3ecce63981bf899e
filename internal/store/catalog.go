package store

import (
	"context"
	"database/sql"
	"errors"

	"tour-revenue-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// The catalog reader performs no writes. Every method takes an
// sqlx.ExtContext so it runs equally inside a completion transaction or
// against the pool; the schedule state machine always calls it inside.

// LoadSchedule retrieves a schedule together with its tour.
func (s *Store) LoadSchedule(ctx context.Context, q sqlx.ExtContext, scheduleID int64) (*models.TourSchedule, *models.Tour, error) {
	var schedule models.TourSchedule
	err := sqlx.GetContext(ctx, q, &schedule,
		"SELECT * FROM tour_schedules WHERE id = $1", scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, models.NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	if err != nil {
		return nil, nil, err
	}

	tour, err := s.LoadTour(ctx, q, schedule.TourID)
	if err != nil {
		return nil, nil, err
	}
	return &schedule, tour, nil
}

// LockSchedule re-reads a schedule under a row-level lock. This is the
// idempotence guard: a concurrent completion or cancellation blocks here
// and then observes the terminal status.
func (s *Store) LockSchedule(ctx context.Context, tx *sqlx.Tx, scheduleID int64) (*models.TourSchedule, error) {
	var schedule models.TourSchedule
	err := tx.GetContext(ctx, &schedule,
		"SELECT * FROM tour_schedules WHERE id = $1 FOR UPDATE", scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// LoadTour retrieves one tour row.
func (s *Store) LoadTour(ctx context.Context, q sqlx.ExtContext, tourID int64) (*models.Tour, error) {
	var tour models.Tour
	err := sqlx.GetContext(ctx, q, &tour, "SELECT * FROM tours WHERE id = $1", tourID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError{Resource: "tour", ID: tourID}
	}
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// ConfirmedBookings returns the bookings that contribute revenue on
// completion, with their raw customizations payloads. Order is the
// insertion order, stable within one call.
func (s *Store) ConfirmedBookings(ctx context.Context, q sqlx.ExtContext, scheduleID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := sqlx.SelectContext(ctx, q, &bookings,
		"SELECT * FROM bookings WHERE schedule_id = $1 AND status = $2 ORDER BY id",
		scheduleID, models.BookingStatusConfirmed)
	return bookings, err
}

// ResolveServices builds the lookup map the decomposer prices bookings
// from: rooms of the bound accommodation, the tour's selected set meal
// options, and the transport binding when present.
func (s *Store) ResolveServices(ctx context.Context, q sqlx.ExtContext, tourID int64) (*models.TourServiceMap, error) {
	svcMap := &models.TourServiceMap{
		Rooms: make(map[int64]models.RoomService),
		Meals: make(map[models.MealKey]models.MealService),
	}

	var rooms []models.RoomService
	err := sqlx.SelectContext(ctx, q, &rooms, `
		SELECT r.id AS room_id, a.partner_id, r.base_price, r.capacity
		FROM tour_services ts
		JOIN accommodation_services a ON a.id = ts.service_id
		JOIN accommodation_rooms r ON r.accommodation_id = a.id
		WHERE ts.tour_id = $1 AND ts.service_type = $2`,
		tourID, models.PartnerTypeAccommodation)
	if err != nil {
		return nil, err
	}
	for _, r := range rooms {
		svcMap.Rooms[r.RoomID] = r
	}

	var meals []models.MealService
	err = sqlx.SelectContext(ctx, q, &meals, `
		SELECT m.id AS set_meal_id, tsm.day_number, tsm.meal_session, rs.partner_id, m.total_price
		FROM tour_selected_set_meals tsm
		JOIN restaurant_set_meals m ON m.id = tsm.set_meal_id
		JOIN restaurant_services rs ON rs.id = m.restaurant_id
		WHERE tsm.tour_id = $1`,
		tourID)
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		svcMap.Meals[models.MealKey{DayNumber: m.DayNumber, Session: m.Session}] = m
	}

	var transport models.TransportService
	err = sqlx.GetContext(ctx, q, &transport, `
		SELECT t.id AS transport_id, t.partner_id, t.base_price
		FROM tour_services ts
		JOIN transportation_services t ON t.id = ts.service_id
		WHERE ts.tour_id = $1 AND ts.service_type = $2
		LIMIT 1`,
		tourID, models.PartnerTypeTransportation)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		svcMap.Transport = &transport
	}

	return svcMap, nil
}
