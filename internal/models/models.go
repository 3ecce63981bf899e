package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Tour represents a catalogued tour. The engine never writes tours.
type Tour struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Duration        int       `db:"duration" json:"duration"`
	NumberOfMembers int       `db:"number_of_members" json:"number_of_members"`
	DepartureCity   string    `db:"departure_city" json:"departure_city"`
	DestinationCity string    `db:"destination_city" json:"destination_city"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TourSchedule is one concrete departure of a tour.
type TourSchedule struct {
	ID          int64     `db:"id" json:"id"`
	TourID      int64     `db:"tour_id" json:"tour_id"`
	DepartureAt time.Time `db:"departure_at" json:"departure_at"`
	ReturnAt    time.Time `db:"return_at" json:"return_at"`
	MaxSlots    int       `db:"max_slots" json:"max_slots"`
	SlotsBooked int       `db:"slots_booked" json:"slots_booked"`
	Status      string    `db:"status" json:"status"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SlotsAvailable is max_slots minus slots_booked, never negative.
func (s *TourSchedule) SlotsAvailable() int {
	if avail := s.MaxSlots - s.SlotsBooked; avail > 0 {
		return avail
	}
	return 0
}

// IsTerminal reports whether no further transitions may leave the status.
func (s *TourSchedule) IsTerminal() bool {
	return s.Status == ScheduleStatusCompleted || s.Status == ScheduleStatusCancelled
}

// Booking is one customer's reservation against a schedule.
// Customizations holds the raw JSON payload as stored; parse it with
// ParseCustomizations before use.
type Booking struct {
	ID             int64           `db:"id" json:"id"`
	TourID         int64           `db:"tour_id" json:"tour_id"`
	ScheduleID     int64           `db:"schedule_id" json:"schedule_id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	NumberOfGuests int             `db:"number_of_guests" json:"number_of_guests"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"total_price"`
	Status         string          `db:"status" json:"status"`
	Customizations []byte          `db:"customizations" json:"-"`
	PromotionCode  sql.NullString  `db:"promotion_code" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// RevenueLedgerRow is the persistent accumulator for one partner's share
// of one schedule's revenue.
type RevenueLedgerRow struct {
	ScheduleID  int64           `db:"schedule_id" json:"schedule_id"`
	PartnerID   int64           `db:"partner_id" json:"partner_id"`
	PartnerType string          `db:"partner_type" json:"partner_type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// LineItem attributes a quantity of one consumed service to a partner.
// The monetary amount is unit_price * quantity, rounded per item.
type LineItem struct {
	Kind        string
	PartnerID   int64
	PartnerType string
	UnitPrice   decimal.Decimal
	Quantity    int64
}

// ScheduleSummaryRow is one row of the operator dashboard listing.
type ScheduleSummaryRow struct {
	ScheduleID        int64     `db:"schedule_id" json:"schedule_id"`
	TourID            int64     `db:"tour_id" json:"tour_id"`
	TourName          string    `db:"tour_name" json:"tour_name"`
	DepartureAt       time.Time `db:"departure_at" json:"departure_at"`
	ReturnAt          time.Time `db:"return_at" json:"return_at"`
	MaxSlots          int       `db:"max_slots" json:"max_slots"`
	SlotsBooked       int       `db:"slots_booked" json:"slots_booked"`
	SlotsAvailable    int       `db:"slots_available" json:"slots_available"`
	Status            string    `db:"status" json:"status"`
	ConfirmedBookings int       `db:"confirmed_bookings" json:"confirmed_booking_count"`
	OccupancyPct      float64   `db:"-" json:"occupancy_pct"`
}

// Schedule statuses
const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusOngoing   = "ongoing"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

// Booking statuses
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Partner types
const (
	PartnerTypeAccommodation  = "accommodation"
	PartnerTypeRestaurant     = "restaurant"
	PartnerTypeTransportation = "transportation"
)

// Meal sessions
const (
	MealSessionMorning = "morning"
	MealSessionNoon    = "noon"
	MealSessionEvening = "evening"
)

// Line item kinds
const (
	LineItemRoom      = "room"
	LineItemMeal      = "meal"
	LineItemTransport = "transport"
)
