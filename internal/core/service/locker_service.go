package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

// LockerService implements the locker catalog use cases. Admin-only
// operations are gated at the API layer; the service assumes the caller is
// authorized.
type LockerService struct {
	lockers      ports.LockerRepository
	reservations ports.ReservationRepository
	logger       zerolog.Logger
}

func NewLockerService(lockers ports.LockerRepository, reservations ports.ReservationRepository, logger zerolog.Logger) *LockerService {
	return &LockerService{lockers: lockers, reservations: reservations, logger: logger}
}

// ListAvailable returns available lockers ordered by locker_number.
func (s *LockerService) ListAvailable(ctx context.Context) ([]*domain.Locker, error) {
	return s.lockers.List(ctx, ports.ListLockersFilter{Status: domain.LockerAvailable})
}

// ListAll returns every locker ordered by locker_number.
func (s *LockerService) ListAll(ctx context.Context) ([]*domain.Locker, error) {
	return s.lockers.List(ctx, ports.ListLockersFilter{})
}

func (s *LockerService) Get(ctx context.Context, id string) (*domain.Locker, error) {
	return s.lockers.FindByID(ctx, id)
}

func (s *LockerService) Create(ctx context.Context, input ports.CreateLockerInput) (*domain.Locker, error) {
	status := input.Status
	if status == "" {
		status = domain.LockerAvailable
	}
	if !domain.ValidLockerStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	locker := &domain.Locker{
		LockerNumber: input.LockerNumber,
		Location:     input.Location,
		PricePerHour: input.PricePerHour,
		Status:       status,
	}

	created, err := s.lockers.Create(ctx, locker)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("locker_number", created.LockerNumber).Msg("locker created")
	return created, nil
}

// Update applies a partial field replacement: only the non-nil fields of
// patch are changed.
func (s *LockerService) Update(ctx context.Context, id string, patch ports.UpdateLockerPatch) (*domain.Locker, error) {
	if patch.Status != nil && !domain.ValidLockerStatus(*patch.Status) {
		return nil, domain.ErrInvalidStatus
	}
	updated, err := s.lockers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("locker_id", id).Msg("locker updated")
	return updated, nil
}

// Delete removes the locker and cascades to its reservations.
func (s *LockerService) Delete(ctx context.Context, id string) error {
	if _, err := s.lockers.FindByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.reservations.DeleteByLocker(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lockers.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("locker_id", id).Int64("reservations_removed", removed).Msg("locker deleted")
	return nil
}

// Stats returns per-status locker counts from a full catalog scan.
func (s *LockerService) Stats(ctx context.Context) (*ports.LockerStats, error) {
	return s.lockers.CountByStatus(ctx)
}
