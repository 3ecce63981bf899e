package service

import (
	"context"
	"time"

	"tour-revenue-service/internal/broker"
	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/store"
	"tour-revenue-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ScheduleService is the schedule state machine. It owns every mutation
// of tour_schedules and of booking statuses, always under a serializable
// transaction with a row lock on the schedule. The row-lock re-read is
// the sole guard against double accrual: a concurrent Complete or Cancel
// blocks on the lock and then observes the terminal status.
type ScheduleService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	decomposer     *Decomposer
	calc           *RevenueCalculator
	logger         *zap.Logger
}

// NewScheduleService creates a new schedule service. eventPublisher may
// be nil; state transitions then simply emit no events.
func NewScheduleService(st *store.Store, eventPublisher *broker.EventPublisher, feeRate float64) *ScheduleService {
	logger := util.GetLogger()
	return &ScheduleService{
		store:          st,
		eventPublisher: eventPublisher,
		decomposer:     NewDecomposer(logger),
		calc:           NewRevenueCalculator(feeRate),
		logger:         logger,
	}
}

// StartScheduleResponse is returned by StartSchedule
type StartScheduleResponse struct {
	ScheduleID int64  `json:"schedule_id"`
	TourID     int64  `json:"tour_id"`
	Status     string `json:"status"`
}

// CancelScheduleResponse is returned by CancelSchedule
type CancelScheduleResponse struct {
	ScheduleID             int64 `json:"schedule_id"`
	CancelledBookingsCount int   `json:"cancelled_bookings_count"`
	SlotsBooked            int   `json:"slots_booked"`
	MaxSlots               int   `json:"max_slots"`
}

// PartnerShare is one partner's accrued amount within a completion
type PartnerShare struct {
	PartnerType string          `json:"partner_type"`
	Amount      decimal.Decimal `json:"amount"`
}

// CompleteScheduleResponse is returned by CompleteSchedule
type CompleteScheduleResponse struct {
	ScheduleID              int64                  `json:"schedule_id"`
	BookingsCount           int                    `json:"bookings_count"`
	TotalRevenueDistributed decimal.Decimal        `json:"total_revenue_distributed"`
	PartnersPaid            int                    `json:"partners_paid"`
	PartnerBreakdown        map[int64]PartnerShare `json:"partner_breakdown"`
}

// StartSchedule moves a pending schedule to ongoing. Bookings are not
// touched.
func (s *ScheduleService) StartSchedule(ctx context.Context, scheduleID int64) (*StartScheduleResponse, error) {
	ctx, span := util.StartSpan(ctx, "ScheduleService.StartSchedule")
	defer span.End()

	tx, err := s.store.BeginSerializableTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	schedule, err := s.store.LockSchedule(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusPending {
		return nil, models.ConflictStateError{ScheduleID: scheduleID, Status: schedule.Status}
	}

	if err := s.store.UpdateScheduleStatus(ctx, tx, scheduleID, models.ScheduleStatusOngoing); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.SchedulesStartedTotal.Inc()
	s.logger.Info("Schedule started", zap.Int64("schedule_id", scheduleID))

	s.publishStarted(ctx, schedule)

	return &StartScheduleResponse{
		ScheduleID: scheduleID,
		TourID:     schedule.TourID,
		Status:     models.ScheduleStatusOngoing,
	}, nil
}

// CancelSchedule cancels a pending or ongoing schedule and every
// confirmed booking on it. The ledger is never touched.
func (s *ScheduleService) CancelSchedule(ctx context.Context, scheduleID int64) (*CancelScheduleResponse, error) {
	ctx, span := util.StartSpan(ctx, "ScheduleService.CancelSchedule")
	defer span.End()

	tx, err := s.store.BeginSerializableTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	schedule, err := s.store.LockSchedule(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsTerminal() {
		return nil, models.ConflictStateError{ScheduleID: scheduleID, Status: schedule.Status}
	}

	cancelled, err := s.store.CancelConfirmedBookings(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateScheduleStatus(ctx, tx, scheduleID, models.ScheduleStatusCancelled); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.SchedulesCancelledTotal.Inc()
	s.logger.Info("Schedule cancelled",
		zap.Int64("schedule_id", scheduleID),
		zap.Int("cancelled_bookings", cancelled))

	s.publishCancelled(ctx, schedule, cancelled)

	return &CancelScheduleResponse{
		ScheduleID:             scheduleID,
		CancelledBookingsCount: cancelled,
		SlotsBooked:            schedule.SlotsBooked,
		MaxSlots:               schedule.MaxSlots,
	}, nil
}

// CompleteSchedule finalises a schedule: decompose every confirmed
// booking into partner line items, accrue each partner's share into the
// revenue ledger, and flip the schedule and its bookings to their
// terminal states. All of it commits or none of it does.
//
// Completion is accepted from pending as well as ongoing; operators
// routinely settle schedules that were never explicitly started.
func (s *ScheduleService) CompleteSchedule(ctx context.Context, scheduleID int64) (*CompleteScheduleResponse, error) {
	ctx, span := util.StartSpan(ctx, "ScheduleService.CompleteSchedule")
	defer span.End()

	start := time.Now()
	resp, err := s.completeTx(ctx, scheduleID)
	if err != nil {
		util.CompletionsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	util.CompletionLatency.Observe(time.Since(start).Seconds())
	return resp, nil
}

func (s *ScheduleService) completeTx(ctx context.Context, scheduleID int64) (*CompleteScheduleResponse, error) {
	tx, err := s.store.BeginSerializableTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	schedule, err := s.store.LockSchedule(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsTerminal() {
		return nil, models.ConflictStateError{ScheduleID: scheduleID, Status: schedule.Status}
	}

	tour, err := s.store.LoadTour(ctx, tx, schedule.TourID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.store.ConfirmedBookings(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, models.NoBookingsError{ScheduleID: scheduleID}
	}

	services, err := s.store.ResolveServices(ctx, tx, schedule.TourID)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[int64]PartnerShare)
	totalPool := decimal.Zero

	for i := range bookings {
		booking := &bookings[i]

		cust, err := models.ParseCustomizations(booking.ID, booking.Customizations)
		if err != nil {
			s.logger.Error("Aborting completion on malformed customizations",
				zap.Int64("schedule_id", scheduleID),
				zap.Int64("booking_id", booking.ID),
				zap.Error(err))
			return nil, err
		}

		for _, item := range s.decomposer.Decompose(booking, tour, cust, services) {
			amount := s.calc.LineItemAmount(item)
			if err := s.store.Accrue(ctx, tx, scheduleID, item.PartnerID, item.PartnerType, amount); err != nil {
				return nil, err
			}
			util.LedgerAccrualsTotal.WithLabelValues(item.PartnerType).Inc()
			util.LedgerAmountAccrued.WithLabelValues(item.PartnerType).Add(amount.InexactFloat64())

			share := breakdown[item.PartnerID]
			share.PartnerType = item.PartnerType
			share.Amount = share.Amount.Add(amount)
			breakdown[item.PartnerID] = share
		}

		totalPool = totalPool.Add(s.calc.PartnerPool(booking.TotalPrice))
	}

	if err := s.store.UpdateScheduleStatus(ctx, tx, scheduleID, models.ScheduleStatusCompleted); err != nil {
		return nil, err
	}
	settled, err := s.store.CompleteConfirmedBookings(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.SchedulesCompletedTotal.Inc()
	util.BookingsSettledTotal.Add(float64(settled))
	s.logger.Info("Schedule completed",
		zap.Int64("schedule_id", scheduleID),
		zap.Int("bookings", len(bookings)),
		zap.Int("partners_paid", len(breakdown)),
		zap.String("total_revenue_distributed", totalPool.String()))

	resp := &CompleteScheduleResponse{
		ScheduleID:              scheduleID,
		BookingsCount:           len(bookings),
		TotalRevenueDistributed: totalPool,
		PartnersPaid:            len(breakdown),
		PartnerBreakdown:        breakdown,
	}
	s.publishCompleted(ctx, schedule, resp)
	return resp, nil
}

func (s *ScheduleService) publishStarted(ctx context.Context, schedule *models.TourSchedule) {
	if s.eventPublisher == nil {
		return
	}
	event := &models.ScheduleStartedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeScheduleStarted),
		ScheduleID: schedule.ID,
		TourID:     schedule.TourID,
		Status:     models.ScheduleStatusOngoing,
	}
	if err := s.eventPublisher.PublishScheduleStarted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ScheduleStarted event", zap.Error(err))
	}
}

func (s *ScheduleService) publishCancelled(ctx context.Context, schedule *models.TourSchedule, cancelled int) {
	if s.eventPublisher == nil {
		return
	}
	event := &models.ScheduleCancelledEvent{
		BaseEvent:         newBaseEvent(models.EventTypeScheduleCancelled),
		ScheduleID:        schedule.ID,
		TourID:            schedule.TourID,
		CancelledBookings: cancelled,
		SlotsBooked:       schedule.SlotsBooked,
		MaxSlots:          schedule.MaxSlots,
	}
	if err := s.eventPublisher.PublishScheduleCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish ScheduleCancelled event", zap.Error(err))
	}
}

func (s *ScheduleService) publishCompleted(ctx context.Context, schedule *models.TourSchedule, resp *CompleteScheduleResponse) {
	if s.eventPublisher == nil {
		return
	}
	shares := make([]models.PartnerShareData, 0, len(resp.PartnerBreakdown))
	for partnerID, share := range resp.PartnerBreakdown {
		shares = append(shares, models.PartnerShareData{
			PartnerID:   partnerID,
			PartnerType: share.PartnerType,
			Amount:      share.Amount,
		})
	}
	event := &models.ScheduleCompletedEvent{
		BaseEvent:               newBaseEvent(models.EventTypeScheduleCompleted),
		ScheduleID:              schedule.ID,
		TourID:                  schedule.TourID,
		BookingsCount:           resp.BookingsCount,
		TotalRevenueDistributed: resp.TotalRevenueDistributed,
		PartnerShares:           shares,
	}
	if err := s.eventPublisher.PublishScheduleCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ScheduleCompleted event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func failureReason(err error) string {
	switch {
	case models.IsNotFound(err):
		return "not_found"
	case models.IsConflictState(err):
		return "conflict_state"
	case models.IsNoBookings(err):
		return "no_bookings"
	case models.IsMalformedCustomizations(err):
		return "malformed_customizations"
	default:
		return "db_error"
	}
}
