package http

import (
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/facility"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/request"
)

type ListFacilitiesRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=available maintenance unavailable"`
}

type CreateFacilityRequest struct {
	Name       string  `json:"name" binding:"required"`
	HourlyRate float64 `json:"hourly_rate" binding:"min=0"`
	Status     string  `json:"status" binding:"omitempty,oneof=available maintenance unavailable"`
}

type UpdateFacilityRequest struct {
	Name       *string  `json:"name"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	Status     *string  `json:"status" binding:"omitempty,oneof=available maintenance unavailable"`
}

type FacilityResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	HourlyRate float64   `json:"hourly_rate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewFacilityResponse(f *facility.Facility) FacilityResponse {
	return FacilityResponse{
		ID:         f.ID,
		Name:       f.Name,
		HourlyRate: f.HourlyRate,
		Status:     string(f.Status),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}
