package handler

import (
	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

type createLockerRequest struct {
	LockerNumber string  `json:"locker_number"  validate:"required"`
	Location     string  `json:"location"       validate:"required"`
	PricePerHour float64 `json:"price_per_hour" validate:"required,gt=0"`
	Status       string  `json:"status"         validate:"omitempty,oneof=available occupied maintenance"`
}

// updateLockerRequest uses pointers so absent fields are distinguishable
// from zero values: only supplied fields are changed.
type updateLockerRequest struct {
	LockerNumber *string  `json:"locker_number"`
	Location     *string  `json:"location"`
	PricePerHour *float64 `json:"price_per_hour" validate:"omitempty,gt=0"`
	Status       *string  `json:"status"         validate:"omitempty,oneof=available occupied maintenance"`
}

type lockerListResponse struct {
	Lockers []*domain.Locker `json:"lockers"`
}

type lockerStatsResponse struct {
	Total       int64 `json:"total_lockers"`
	Available   int64 `json:"available_lockers"`
	Occupied    int64 `json:"occupied_lockers"`
	Maintenance int64 `json:"maintenance_lockers"`
}

func toUpdateLockerPatch(req updateLockerRequest) ports.UpdateLockerPatch {
	patch := ports.UpdateLockerPatch{
		LockerNumber: req.LockerNumber,
		Location:     req.Location,
		PricePerHour: req.PricePerHour,
	}
	if req.Status != nil {
		status := domain.LockerStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}
