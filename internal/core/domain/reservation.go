package domain

import (
	"errors"
	"time"
)

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Both completed and cancelled are terminal.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationActive: {ReservationCompleted, ReservationCancelled},
}

var ErrReservationNotFound = errors.New("reservation not found")
var ErrReservationClosed = errors.New("reservation already closed")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is a time-bounded claim by a user on a locker.
// EndTime and TotalPrice stay nil while the reservation is active.
type Reservation struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	LockerID   string            `json:"locker_id"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    *time.Time        `json:"end_time"`
	TotalPrice *float64          `json:"total_price"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
