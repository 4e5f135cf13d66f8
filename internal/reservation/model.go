package reservation

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "NotFound", "reservation not found")
	ErrInvalidSlotSelection  = apperror.New(http.StatusBadRequest, "InvalidSlotSelection", "select at least one slot from the daily schedule")
	ErrInvalidDate           = apperror.New(http.StatusBadRequest, "InvalidDate", "date must be formatted YYYY-MM-DD")
	ErrSlotConflict          = apperror.New(http.StatusConflict, "SlotConflict", "some requested slots are already booked")
	ErrFacilityUnavailable   = apperror.New(http.StatusConflict, "FacilityUnavailable", "facility is not open for booking")
	ErrStorageUnavailable    = apperror.New(http.StatusServiceUnavailable, "StorageUnavailable", "reservation store is unavailable, try again later")
	ErrBookingOutcomeUnknown = apperror.New(http.StatusGatewayTimeout, "BookingOutcomeUnknown", "booking timed out and may have been reserved; check availability before retrying")
	ErrInvalidStatus         = apperror.New(http.StatusBadRequest, "InvalidStatus", "unknown reservation status")
	ErrInvalidTransition     = apperror.New(http.StatusConflict, "InvalidTransition", "status change is not allowed")
	ErrConcurrentUpdate      = apperror.New(http.StatusConflict, "ConcurrentUpdate", "reservation changed while updating, reload and retry")
	ErrForbidden             = apperror.New(http.StatusForbidden, "Forbidden", "permission denied")
)

// SlotConflictDetails names the requested labels that are already occupied.
type SlotConflictDetails struct {
	ConflictingSlots []string `json:"conflicting_slots"`
}

// InvalidSlotDetails names the requested labels that are not bookable.
type InvalidSlotDetails struct {
	InvalidSlots []string `json:"invalid_slots"`
}

// TransitionDetails describes a refused status change.
type TransitionDetails struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}

// Reservation is one booking row. Rows written here always carry both the
// slot labels and the derived start/end pair; older rows may carry only one.
type Reservation struct {
	ID           string
	FacilityID   int64
	FacilityName string
	UserID       *string
	BookingDate  time.Time
	TimeSlots    []string
	StartTime    *time.Time
	EndTime      *time.Time
	Status       Status
	TotalPrice   float64
	Discount     float64
	PromotionID  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Times returns the stored time representation of the row.
func (r *Reservation) Times() slot.Times {
	return slot.FromRecord(r.TimeSlots, r.StartTime, r.EndTime)
}

// Slots returns the canonical labels occupied by the row, read in loc.
func (r *Reservation) Slots(loc *time.Location) []string {
	return slot.Normalize(r.Times(), loc)
}

// Window returns the start and end of the booked time.
func (r *Reservation) Window(loc *time.Location) (time.Time, time.Time, bool) {
	if r.StartTime != nil && r.EndTime != nil {
		return *r.StartTime, *r.EndTime, true
	}
	return slot.Bounds(r.Slots(loc), r.BookingDate, loc)
}

// OwnedBy reports whether userID owns the reservation. Guest rows have no owner.
func (r *Reservation) OwnedBy(userID string) bool {
	return userID != "" && r.UserID != nil && strings.EqualFold(*r.UserID, userID)
}

// Actor is the caller of a reservation operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type Filter struct {
	FacilityID int64
	UserID     string
	Status     Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortOrder  string
}

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD booking date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate.WithCause(err)
	}
	return d, nil
}

// FormatDate renders a booking date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}
