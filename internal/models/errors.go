package models

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing entity. Not retriable.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictStateError reports a state-machine precondition violation.
// Retrying without external change is useless.
type ConflictStateError struct {
	ScheduleID int64
	Status     string
}

func (e ConflictStateError) Error() string {
	return fmt.Sprintf("schedule %d is %s", e.ScheduleID, e.Status)
}

// NoBookingsError reports a completion attempt on a schedule holding no
// confirmed bookings. The caller should likely cancel instead.
type NoBookingsError struct {
	ScheduleID int64
}

func (e NoBookingsError) Error() string {
	return fmt.Sprintf("schedule %d has no confirmed bookings", e.ScheduleID)
}

// MalformedCustomizationsError reports a structurally invalid
// customizations payload. It aborts the whole completion.
type MalformedCustomizationsError struct {
	BookingID int64
	Reason    string
	Err       error
}

func (e MalformedCustomizationsError) Error() string {
	return fmt.Sprintf("booking %d has malformed customizations: %s", e.BookingID, e.Reason)
}

func (e MalformedCustomizationsError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsConflictState(err error) bool {
	var target ConflictStateError
	return errors.As(err, &target)
}

func IsNoBookings(err error) bool {
	var target NoBookingsError
	return errors.As(err, &target)
}

func IsMalformedCustomizations(err error) bool {
	var target MalformedCustomizationsError
	return errors.As(err, &target)
}
