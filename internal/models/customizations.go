package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RoomSelection is the room a booking chose, with the price quoted at
// booking time. Pricing on completion uses the catalog price, not this
// snapshot.
type RoomSelection struct {
	RoomID    int64           `json:"room_id"`
	RoomPrice decimal.Decimal `json:"room_price"`
}

// MealSelection is one chosen set meal slot within the tour.
type MealSelection struct {
	DayNumber   int    `json:"day_number"`
	MealSession string `json:"meal_session"`
}

// TransportOptions flags which legs of the bound transport the booking uses.
type TransportOptions struct {
	Outbound bool `json:"outbound"`
	Return   bool `json:"return"`
}

// Customizations is the typed form of a booking's customizations payload.
// Every field is optional; the zero value means the booking consumed no
// optional services.
type Customizations struct {
	DefaultRoom       *RoomSelection    `json:"default_room,omitempty"`
	RoomUpgrade       *RoomSelection    `json:"room_upgrade,omitempty"`
	SelectedMeals     []MealSelection   `json:"selected_meals,omitempty"`
	TransportOptions  *TransportOptions `json:"transport_options,omitempty"`
	ActualPeopleCount *int              `json:"actual_people_count,omitempty"`
}

// ChosenRoom returns the room that prices accommodation: the upgrade when
// present, otherwise the default. Nil when the booking selected no room.
func (c *Customizations) ChosenRoom() *RoomSelection {
	if c.RoomUpgrade != nil {
		return c.RoomUpgrade
	}
	return c.DefaultRoom
}

// EffectiveGuests is the headcount used for all quantity rules:
// actual_people_count when present and positive, otherwise the booking's
// guest count.
func (c *Customizations) EffectiveGuests(numberOfGuests int) int {
	if c.ActualPeopleCount != nil && *c.ActualPeopleCount >= 1 {
		return *c.ActualPeopleCount
	}
	return numberOfGuests
}

// ParseCustomizations parses a booking's raw customizations payload.
// A missing, empty, or JSON-null payload parses to the zero value. Any
// structural mismatch (top level not an object, selected_meals not a
// list, wrong field types) fails with MalformedCustomizationsError.
func ParseCustomizations(bookingID int64, raw []byte) (Customizations, error) {
	var c Customizations

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return c, nil
	}
	if trimmed[0] != '{' {
		return c, MalformedCustomizationsError{BookingID: bookingID, Reason: "payload is not an object"}
	}
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return Customizations{}, MalformedCustomizationsError{BookingID: bookingID, Reason: err.Error(), Err: err}
	}
	return c, nil
}
