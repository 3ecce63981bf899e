package service

import (
	"tour-revenue-service/internal/models"
	"tour-revenue-service/internal/util"

	"go.uber.org/zap"
)

const (
	// mealPartySize is how many people one set meal serves.
	mealPartySize = 2
	// defaultRoomCapacity is assumed when a catalog row carries no
	// usable per-room people count.
	defaultRoomCapacity = 2
)

// Decomposer turns one confirmed booking into partner-attributed line
// items. It never fails a booking over a single unresolvable sub-item:
// the gap is logged and skipped. Structural payload problems are the
// caller's to catch via ParseCustomizations before decomposing.
type Decomposer struct {
	logger *zap.Logger
}

func NewDecomposer(logger *zap.Logger) *Decomposer {
	return &Decomposer{logger: logger}
}

// Decompose applies the quantity model:
//   - rooms: ceil(guests / room capacity) rooms for max(1, duration-1)
//     nights at the chosen room's catalog price
//   - meals: ceil(guests / 2) set meals per selected (day, session)
//   - transport: guests * booked trips at the transport's catalog price
func (d *Decomposer) Decompose(booking *models.Booking, tour *models.Tour, cust models.Customizations, services *models.TourServiceMap) []models.LineItem {
	guests := cust.EffectiveGuests(booking.NumberOfGuests)
	if guests < 1 {
		guests = 1
	}

	items := make([]models.LineItem, 0, len(cust.SelectedMeals)+2)

	if room := cust.ChosenRoom(); room != nil {
		if svc, ok := services.Room(room.RoomID); ok {
			capacity := svc.Capacity
			if capacity < 1 {
				capacity = defaultRoomCapacity
			}
			roomsNeeded := ceilDiv(guests, capacity)
			nights := tour.Duration - 1
			if nights < 1 {
				nights = 1
			}
			items = append(items, models.LineItem{
				Kind:        models.LineItemRoom,
				PartnerID:   svc.PartnerID,
				PartnerType: models.PartnerTypeAccommodation,
				UnitPrice:   svc.BasePrice,
				Quantity:    int64(roomsNeeded * nights),
			})
		} else {
			d.skip(models.LineItemRoom, booking.ID,
				zap.Int64("room_id", room.RoomID))
		}
	}

	mealsNeeded := int64(ceilDiv(guests, mealPartySize))
	for _, sel := range cust.SelectedMeals {
		svc, ok := services.Meal(sel.DayNumber, sel.MealSession)
		if !ok {
			d.skip(models.LineItemMeal, booking.ID,
				zap.Int("day_number", sel.DayNumber),
				zap.String("meal_session", sel.MealSession))
			continue
		}
		items = append(items, models.LineItem{
			Kind:        models.LineItemMeal,
			PartnerID:   svc.PartnerID,
			PartnerType: models.PartnerTypeRestaurant,
			UnitPrice:   svc.TotalPrice,
			Quantity:    mealsNeeded,
		})
	}

	if opts := cust.TransportOptions; opts != nil {
		trips := 0
		if opts.Outbound {
			trips++
		}
		if opts.Return {
			trips++
		}
		if trips > 0 {
			if services.Transport != nil {
				items = append(items, models.LineItem{
					Kind:        models.LineItemTransport,
					PartnerID:   services.Transport.PartnerID,
					PartnerType: models.PartnerTypeTransportation,
					UnitPrice:   services.Transport.BasePrice,
					Quantity:    int64(guests * trips),
				})
			} else {
				d.skip(models.LineItemTransport, booking.ID)
			}
		}
	}

	return items
}

func (d *Decomposer) skip(kind string, bookingID int64, fields ...zap.Field) {
	util.LineItemsSkippedTotal.WithLabelValues(kind).Inc()
	fields = append([]zap.Field{
		zap.String("kind", kind),
		zap.Int64("booking_id", bookingID),
	}, fields...)
	d.logger.Warn("Skipping line item, service did not resolve", fields...)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
