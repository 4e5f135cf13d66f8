package payment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "NotFound", "payment not found")
	ErrSlipNotFound      = apperror.New(http.StatusNotFound, "NotFound", "payment slip file is missing")
	ErrInvalidSlip       = apperror.New(http.StatusBadRequest, "InvalidSlip", "payment slip must be a JPEG or PNG image")
	ErrSlipTooLarge      = apperror.New(http.StatusRequestEntityTooLarge, "InvalidSlip", "payment slip is too large")
	ErrReservationClosed = apperror.New(http.StatusConflict, "ReservationClosed", "reservation no longer accepts payments")
)

// MaxSlipBytes bounds an uploaded slip.
const MaxSlipBytes = 5 << 20

// Payment is a slip the reservation owner uploaded as proof of transfer.
type Payment struct {
	ID            string
	ReservationID string
	UserID        *string
	Amount        *float64
	Filename      string
	SlipPath      string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}
