package models

import "github.com/shopspring/decimal"

// RoomService is a catalogued room resolved to its owning partner.
type RoomService struct {
	RoomID    int64           `db:"room_id"`
	PartnerID int64           `db:"partner_id"`
	BasePrice decimal.Decimal `db:"base_price"`
	Capacity  int             `db:"capacity"`
}

// MealService is one catalogued (day, session) set meal option resolved
// to its owning partner.
type MealService struct {
	SetMealID  int64           `db:"set_meal_id"`
	DayNumber  int             `db:"day_number"`
	Session    string          `db:"meal_session"`
	PartnerID  int64           `db:"partner_id"`
	TotalPrice decimal.Decimal `db:"total_price"`
}

// TransportService is the transport binding of a tour resolved to its
// owning partner.
type TransportService struct {
	TransportID int64           `db:"transport_id"`
	PartnerID   int64           `db:"partner_id"`
	BasePrice   decimal.Decimal `db:"base_price"`
}

// MealKey addresses a set meal option within one tour.
type MealKey struct {
	DayNumber int
	Session   string
}

// TourServiceMap answers every lookup the booking decomposer needs for
// one tour: room id to room, (day, session) to set meal, and the single
// transport binding if any.
type TourServiceMap struct {
	Rooms     map[int64]RoomService
	Meals     map[MealKey]MealService
	Transport *TransportService
}

// Room resolves a room id.
func (m *TourServiceMap) Room(roomID int64) (RoomService, bool) {
	r, ok := m.Rooms[roomID]
	return r, ok
}

// Meal resolves a (day_number, meal_session) pair.
func (m *TourServiceMap) Meal(dayNumber int, session string) (MealService, bool) {
	s, ok := m.Meals[MealKey{DayNumber: dayNumber, Session: session}]
	return s, ok
}
