package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/citylockers/locker-system/internal/api/metrics"
	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

// ReservationService implements the reservation lifecycle. The locker status
// and the reservation set are kept consistent through conditional writes at
// the repository layer: claiming a locker and closing a reservation each
// happen in a single compare-and-swap, so concurrent callers cannot both
// succeed.
type ReservationService struct {
	lockers      ports.LockerRepository
	reservations ports.ReservationRepository
	logger       zerolog.Logger
}

func NewReservationService(lockers ports.LockerRepository, reservations ports.ReservationRepository, logger zerolog.Logger) *ReservationService {
	return &ReservationService{lockers: lockers, reservations: reservations, logger: logger}
}

// Create claims the locker and opens an active reservation for the user.
func (s *ReservationService) Create(ctx context.Context, userID, lockerID string) (*domain.Reservation, error) {
	// 1. Claim the locker: available → occupied in one conditional write.
	locker, err := s.lockers.ClaimAvailable(ctx, lockerID)
	if err != nil {
		if errors.Is(err, domain.ErrLockerUnavailable) {
			metrics.ReservationConflictsTotal.Inc()
			s.logger.Info().Str("locker_id", lockerID).Str("user_id", userID).Msg("reservation rejected, locker not available")
		}
		return nil, err
	}

	// 2. Open the reservation.
	now := time.Now().UTC()
	reservation := &domain.Reservation{
		UserID:    userID,
		LockerID:  locker.ID,
		StartTime: now,
		Status:    domain.ReservationActive,
		CreatedAt: now,
	}

	created, err := s.reservations.Create(ctx, reservation)
	if err != nil {
		// 3. Compensate the claim so the locker is not left stuck occupied.
		if rbErr := s.lockers.SetStatus(ctx, locker.ID, domain.LockerAvailable); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("locker_id", locker.ID).Msg("failed to roll back locker claim")
		}
		s.logger.Error().Err(err).Str("locker_id", locker.ID).Msg("failed to create reservation")
		return nil, err
	}

	metrics.ReservationsCreatedTotal.Inc()
	s.logger.Info().
		Str("reservation_id", created.ID).
		Str("locker_id", locker.ID).
		Str("user_id", userID).
		Msg("reservation created")

	return created, nil
}

// Release completes the reservation and frees its locker. Only the owning
// user or an admin may release.
func (s *ReservationService) Release(ctx context.Context, reservationID string, caller ports.Caller) (*domain.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	return s.close(ctx, reservation, domain.ReservationCompleted)
}

// Cancel is the administrative path: active → cancelled.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return s.close(ctx, reservation, domain.ReservationCancelled)
}

// close moves a reservation to a terminal status and frees its locker.
// The terminal write is the guard: it only matches an active reservation, so
// a duplicate release fails there and never touches the locker again.
func (s *ReservationService) close(ctx context.Context, reservation *domain.Reservation, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !reservation.Status.CanTransitionTo(status) {
		return nil, domain.ErrReservationClosed
	}

	locker, err := s.lockers.FindByID(ctx, reservation.LockerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := totalPrice(reservation.StartTime, now, locker.PricePerHour)

	closed, err := s.reservations.Close(ctx, reservation.ID, status, now, total)
	if err != nil {
		return nil, err
	}

	if err := s.lockers.SetStatus(ctx, locker.ID, domain.LockerAvailable); err != nil {
		s.logger.Error().Err(err).Str("locker_id", locker.ID).Msg("failed to free locker after close")
		return nil, err
	}

	metrics.ReservationsClosedTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().
		Str("reservation_id", closed.ID).
		Str("locker_id", locker.ID).
		Str("status", string(status)).
		Float64("total_price", total).
		Msg("reservation closed")

	return closed, nil
}

// List returns all reservations for admins, otherwise only the caller's own,
// newest first.
func (s *ReservationService) List(ctx context.Context, caller ports.Caller) ([]*domain.Reservation, error) {
	filter := ports.ListReservationsFilter{}
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}
	return s.reservations.List(ctx, filter)
}

// totalPrice bills started hours: the occupied duration rounded up to whole
// hours, minimum one hour, times the hourly rate.
func totalPrice(start, end time.Time, pricePerHour float64) float64 {
	hours := math.Ceil(end.Sub(start).Hours())
	if hours < 1 {
		hours = 1
	}
	return hours * pricePerHour
}
