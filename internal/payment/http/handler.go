package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/arena-booking-backend/internal/auth"
	"github.com/nekogravitycat/arena-booking-backend/internal/payment"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
)

// formField is the multipart field carrying the slip image.
const formField = "slip"

type Handler struct {
	service payment.Service
	logger  zerolog.Logger
}

func NewHandler(service payment.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func parseUUID(c *gin.Context) (string, bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid UUID", nil)
		return "", false
	}
	return req.ID, true
}

// POST /v1/reservations/:id/slip
func (h *Handler) Upload(c *gin.Context) {
	reservationID, ok := parseUUID(c)
	if !ok {
		return
	}

	// Leave room for the multipart envelope around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, payment.MaxSlipBytes+64<<10)

	var form UploadSlipForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid form data", err.Error())
		return
	}
	header, err := c.FormFile(formField)
	if err != nil {
		response.BadRequest(c, formField+" is required", nil)
		return
	}

	p, err := h.service.Upload(c.Request.Context(), payment.UploadInput{
		ReservationID: reservationID,
		Actor:         reservation.Actor{UserID: auth.GetUserID(c), IsAdmin: auth.IsAdmin(c)},
		Header:        header,
		Amount:        form.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPaymentResponse(p))
}

// GET /v1/admin/reservations/:id/payments
func (h *Handler) ListByReservation(c *gin.Context) {
	reservationID, ok := parseUUID(c)
	if !ok {
		return
	}

	items, err := h.service.ListByReservation(c.Request.Context(), reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]PaymentResponse, len(items))
	for i, p := range items {
		out[i] = NewPaymentResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

// GET /v1/admin/payments/:id/slip
func (h *Handler) ServeSlip(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, p.ContentType, p.Filename)
}

// GET /v1/admin/payments/:id/slip/thumbnail
func (h *Handler) ServeThumbnail(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, "image/jpeg", p.ID+"_thumb.jpg")
}

func (h *Handler) stream(c *gin.Context, r io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		h.logger.Warn().Err(err).Str("filename", filename).Msg("stream slip interrupted")
	}
}
