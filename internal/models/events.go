package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeScheduleStarted   = "SCHEDULE_STARTED"
	EventTypeScheduleCancelled = "SCHEDULE_CANCELLED"
	EventTypeScheduleCompleted = "SCHEDULE_COMPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ScheduleStartedEvent published when a schedule moves to ongoing
type ScheduleStartedEvent struct {
	BaseEvent
	ScheduleID int64  `json:"schedule_id"`
	TourID     int64  `json:"tour_id"`
	Status     string `json:"status"`
}

// ScheduleCancelledEvent published when a schedule is cancelled
type ScheduleCancelledEvent struct {
	BaseEvent
	ScheduleID        int64 `json:"schedule_id"`
	TourID            int64 `json:"tour_id"`
	CancelledBookings int   `json:"cancelled_bookings_count"`
	SlotsBooked       int   `json:"slots_booked"`
	MaxSlots          int   `json:"max_slots"`
}

// PartnerShareData is one partner's accrued share inside a completion event
type PartnerShareData struct {
	PartnerID   int64           `json:"partner_id"`
	PartnerType string          `json:"partner_type"`
	Amount      decimal.Decimal `json:"amount"`
}

// ScheduleCompletedEvent published after a completion commits
type ScheduleCompletedEvent struct {
	BaseEvent
	ScheduleID              int64              `json:"schedule_id"`
	TourID                  int64              `json:"tour_id"`
	BookingsCount           int                `json:"bookings_count"`
	TotalRevenueDistributed decimal.Decimal    `json:"total_revenue_distributed"`
	PartnerShares           []PartnerShareData `json:"partner_shares"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
