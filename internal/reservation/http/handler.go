package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/arena-booking-backend/internal/auth"
	facilityHttp "github.com/nekogravitycat/arena-booking-backend/internal/facility/http"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/arena-booking-backend/internal/report"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

// exportLimit caps the rows read for one XLSX export.
const exportLimit = 5000

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) reservation.Actor {
	return reservation.Actor{UserID: auth.GetUserID(c), IsAdmin: auth.IsAdmin(c)}
}

func parseReservationID(c *gin.Context) (string, bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid UUID", nil)
		return "", false
	}
	return req.ID, true
}

// GET /v1/slots
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": slot.GenerateSlots(), "labels": slot.Labels()})
}

// GET /v1/facilities/:id/availability?date=YYYY-MM-DD
func (h *Handler) Availability(c *gin.Context) {
	facilityID, ok := facilityHttp.ParseID(c)
	if !ok {
		return
	}
	date, err := reservation.ParseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	a, err := h.service.Availability(c.Request.Context(), facilityID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAvailabilityResponse(a))
}

// POST /v1/reservations
func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	date, err := reservation.ParseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	loc := h.service.Location()
	r, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		FacilityID:  body.FacilityID,
		Date:        date,
		Slots:       body.RequestedSlots(loc),
		UserID:      auth.GetUserID(c),
		PromotionID: body.PromotionID,
		ClientTotal: body.TotalPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r, loc))
}

// GET /v1/reservations/mine
func (h *Handler) ListMine(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}
	params.Normalize()

	items, total, err := h.service.List(c.Request.Context(), reservation.Filter{
		UserID:   auth.GetUserID(c),
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writePage(c, items, params.Page, params.PageSize, total)
}

// GET /v1/reservations/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewReservationResponse(r, h.service.Location()))
}

// PATCH /v1/reservations/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}
	to, ok := reservation.ParseStatus(body.Status)
	if !ok {
		response.Error(c, reservation.ErrInvalidStatus)
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), id, to, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewReservationResponse(r, h.service.Location()))
}

func (h *Handler) bindAdminFilter(c *gin.Context) (reservation.Filter, bool) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return reservation.Filter{}, false
	}
	req.Normalize()

	filter, err := req.Filter()
	if err != nil {
		response.Error(c, err)
		return reservation.Filter{}, false
	}
	return filter, true
}

// GET /v1/admin/reservations
func (h *Handler) AdminList(c *gin.Context) {
	filter, ok := h.bindAdminFilter(c)
	if !ok {
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writePage(c, items, filter.Page, filter.PageSize, total)
}

// GET /v1/admin/reservations/grouped
func (h *Handler) AdminGrouped(c *gin.Context) {
	filter, ok := h.bindAdminFilter(c)
	if !ok {
		return
	}

	groups, err := h.service.Grouped(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	loc := h.service.Location()
	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = NewGroupResponse(g, loc)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

// GET /v1/admin/reservations/export
func (h *Handler) AdminExport(c *gin.Context) {
	filter, ok := h.bindAdminFilter(c)
	if !ok {
		return
	}
	filter.Page, filter.PageSize = 1, exportLimit

	groups, err := h.service.Grouped(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteGroups(&buf, groups, h.service.Location()); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().In(h.service.Location()).Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) writePage(c *gin.Context, items []*reservation.Reservation, page, pageSize, total int) {
	loc := h.service.Location()
	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r, loc)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, page, pageSize, total))
}
