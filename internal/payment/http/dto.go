package http

import (
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/payment"
)

type UploadSlipForm struct {
	Amount *float64 `form:"amount" binding:"omitempty,gte=0"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	UserID        *string   `json:"user_id"`
	Amount        *float64  `json:"amount"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	SlipURL       string    `json:"slip_url"`
	ThumbnailURL  *string   `json:"thumbnail_url"`
	CreatedAt     time.Time `json:"created_at"`
}

func slipURL(id string) string {
	return "/v1/admin/payments/" + id + "/slip"
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Filename:      p.Filename,
		ContentType:   p.ContentType,
		Size:          p.Size,
		SlipURL:       slipURL(p.ID),
		CreatedAt:     p.CreatedAt,
	}
	if p.ThumbnailPath != nil {
		t := slipURL(p.ID) + "/thumbnail"
		resp.ThumbnailURL = &t
	}
	return resp
}
