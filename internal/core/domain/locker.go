package domain

import (
	"errors"
	"time"
)

// LockerStatus represents the availability state of a locker.
type LockerStatus string

const (
	LockerAvailable   LockerStatus = "available"
	LockerOccupied    LockerStatus = "occupied"
	LockerMaintenance LockerStatus = "maintenance"
)

var ErrLockerNotFound = errors.New("locker not found")
var ErrLockerExists = errors.New("locker number already exists")
var ErrLockerUnavailable = errors.New("locker is not available")
var ErrInvalidStatus = errors.New("invalid locker status")
var ErrForbidden = errors.New("access forbidden")

// ValidLockerStatus reports whether s is one of the known locker states.
func ValidLockerStatus(s LockerStatus) bool {
	switch s {
	case LockerAvailable, LockerOccupied, LockerMaintenance:
		return true
	}
	return false
}

// Locker is a rentable physical unit.
type Locker struct {
	ID           string       `json:"id"`
	LockerNumber string       `json:"locker_number"`
	Location     string       `json:"location"`
	PricePerHour float64      `json:"price_per_hour"`
	Status       LockerStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
