package notification

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "NotFound", "notification not found")
)

const TypeBooking = "booking"

// Notification is a message shown in a user's inbox.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	RelatedID string    `json:"related_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Filter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
