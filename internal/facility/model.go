package facility

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "NotFound", "facility not found")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, "InvalidFacility", "name cannot be empty")
	ErrInvalidRate   = apperror.New(http.StatusBadRequest, "InvalidFacility", "hourly rate must not be negative")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, "InvalidFacility", "invalid facility status")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusUnavailable Status = "unavailable"
)

// Valid reports whether s is a known facility status.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusUnavailable:
		return true
	}
	return false
}

// Facility is a bookable venue (e.g., Court 7). The booking core reads
// only its id, rate and status.
type Facility struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	HourlyRate float64   `json:"hourly_rate"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Bookable reports whether new reservations may be placed on the facility.
func (f *Facility) Bookable() bool {
	return f.Status == StatusAvailable
}

// Filter defines parameters for listing facilities.
type Filter struct {
	Status   Status
	Page     int
	PageSize int
}
