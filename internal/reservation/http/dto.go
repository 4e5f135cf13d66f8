package http

import (
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

// CreateReservationRequest accepts either slot labels ("13:00 - 14:00") or
// a start/end pair. Labels win when both are sent.
type CreateReservationRequest struct {
	FacilityID  int64    `json:"facility_id" binding:"required,min=1"`
	Date        string   `json:"date" binding:"required"`
	Slots       []string `json:"slots"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	TotalPrice  *float64 `json:"total_price"`
	PromotionID string   `json:"promotion_id" binding:"omitempty,uuid"`
}

// RequestedSlots returns the raw labels to book.
func (r *CreateReservationRequest) RequestedSlots(loc *time.Location) []string {
	if len(r.Slots) > 0 {
		return r.Slots
	}
	if r.StartTime != "" && r.EndTime != "" {
		return slot.Normalize(slot.FromRawRange(r.StartTime, r.EndTime, loc), loc)
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListReservationsRequest struct {
	request.ListParams
	FacilityID int64  `form:"facility_id" binding:"omitempty,min=1"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query into a domain filter.
func (r *ListReservationsRequest) Filter() (reservation.Filter, error) {
	f := reservation.Filter{
		FacilityID: r.FacilityID,
		UserID:     r.UserID,
		Page:       r.Page,
		PageSize:   r.PageSize,
		SortOrder:  r.SortOrder,
	}
	if r.Status != "" {
		st, ok := reservation.ParseStatus(r.Status)
		if !ok {
			return f, reservation.ErrInvalidStatus
		}
		f.Status = st
	}
	if r.DateFrom != "" {
		d, err := reservation.ParseDate(r.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = &d
	}
	if r.DateTo != "" {
		d, err := reservation.ParseDate(r.DateTo)
		if err != nil {
			return f, err
		}
		f.DateTo = &d
	}
	return f, nil
}

type ReservationResponse struct {
	ID           string     `json:"id"`
	FacilityID   int64      `json:"facility_id"`
	FacilityName string     `json:"facility_name,omitempty"`
	UserID       *string    `json:"user_id"`
	Date         string     `json:"date"`
	Slots        []string   `json:"slots"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Status       string     `json:"status"`
	TotalPrice   float64    `json:"total_price"`
	Discount     float64    `json:"discount"`
	PromotionID  *string    `json:"promotion_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation, loc *time.Location) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		FacilityID:   r.FacilityID,
		FacilityName: r.FacilityName,
		UserID:       r.UserID,
		Date:         reservation.FormatDate(r.BookingDate),
		Slots:        r.Slots(loc),
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       string(r.Status),
		TotalPrice:   r.TotalPrice,
		Discount:     r.Discount,
		PromotionID:  r.PromotionID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type GroupResponse struct {
	ID           string                `json:"id"`
	CreatedAt    time.Time             `json:"created_at"`
	FacilityID   int64                 `json:"facility_id"`
	FacilityName string                `json:"facility_name,omitempty"`
	UserID       *string               `json:"user_id"`
	Date         string                `json:"date"`
	StartTime    *time.Time            `json:"start_time,omitempty"`
	EndTime      *time.Time            `json:"end_time,omitempty"`
	Slots        []string              `json:"slots"`
	TotalPrice   float64               `json:"total_price"`
	Status       string                `json:"status"`
	Items        []ReservationResponse `json:"items"`
}

func NewGroupResponse(g reservation.Group, loc *time.Location) GroupResponse {
	items := make([]ReservationResponse, len(g.Items))
	for i, r := range g.Items {
		items[i] = NewReservationResponse(r, loc)
	}
	return GroupResponse{
		ID:           g.ID,
		CreatedAt:    g.CreatedAt,
		FacilityID:   g.FacilityID,
		FacilityName: g.FacilityName,
		UserID:       g.UserID,
		Date:         reservation.FormatDate(g.BookingDate),
		StartTime:    g.Start,
		EndTime:      g.End,
		Slots:        g.Slots,
		TotalPrice:   g.TotalPrice,
		Status:       string(g.Status),
		Items:        items,
	}
}

type AvailabilityResponse struct {
	FacilityID int64                          `json:"facility_id"`
	Date       string                         `json:"date"`
	Slots      []reservation.SlotAvailability `json:"slots"`
	Occupied   []string                       `json:"occupied"`
}

func NewAvailabilityResponse(a *reservation.Availability) AvailabilityResponse {
	occupied := a.Occupied
	if occupied == nil {
		occupied = []string{}
	}
	return AvailabilityResponse{
		FacilityID: a.FacilityID,
		Date:       reservation.FormatDate(a.Date),
		Slots:      a.Slots,
		Occupied:   occupied,
	}
}
