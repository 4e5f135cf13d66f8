package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/arena-booking-backend/internal/auth"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
)

const ownerID = "5d8b3f5e-2b7c-4c1a-8f3e-1a2b3c4d5e6f"

var ict = time.FixedZone("ICT", 7*60*60)

// stubService records the last request and returns canned results.
type stubService struct {
	reservation.Service

	lastCreate reservation.CreateRequest
	lastStatus reservation.Status
	lastActor  reservation.Actor
	lastFilter reservation.Filter
	err        error
	rows       []*reservation.Reservation
}

func (s *stubService) Location() *time.Location { return ict }

func (s *stubService) Create(ctx context.Context, req reservation.CreateRequest) (*reservation.Reservation, error) {
	s.lastCreate = req
	if s.err != nil {
		return nil, s.err
	}
	return &reservation.Reservation{
		ID:          "7f0e1d2c-3b4a-4958-8776-655443322110",
		FacilityID:  req.FacilityID,
		BookingDate: req.Date,
		TimeSlots:   req.Slots,
		Status:      reservation.StatusPending,
		TotalPrice:  1000,
	}, nil
}

func (s *stubService) UpdateStatus(ctx context.Context, id string, to reservation.Status, actor reservation.Actor) (*reservation.Reservation, error) {
	s.lastStatus, s.lastActor = to, actor
	if s.err != nil {
		return nil, s.err
	}
	return &reservation.Reservation{ID: id, TimeSlots: []string{"13:00-14:00"}, Status: to}, nil
}

func (s *stubService) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	s.lastFilter = filter
	return s.rows, len(s.rows), s.err
}

func (s *stubService) Grouped(ctx context.Context, filter reservation.Filter) ([]reservation.Group, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return reservation.GroupByCreation(s.rows, ict), nil
}

func newTestRouter(svc reservation.Service, jwt *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1")
	h := NewHandler(svc)
	RegisterRoutes(v1, h, Middlewares{
		Auth:         auth.AuthRequired(jwt),
		OptionalAuth: auth.OptionalAuth(jwt),
	})
	admin := v1.Group("/admin", auth.AuthRequired(jwt), auth.RequireAdmin())
	RegisterAdminRoutes(admin, h)
	return r
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCatalog(t *testing.T) {
	r := newTestRouter(&stubService{}, auth.NewJWTManager("secret", time.Hour))
	w := do(r, http.MethodGet, "/v1/slots", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Labels []string `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Labels, 11)
	assert.Equal(t, "13:00-14:00", body.Labels[0])
}

func TestCreateReservation(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	token, err := jwt.GenerateAccessToken(ownerID, auth.RoleUser)
	require.NoError(t, err)

	t.Run("labels as guest", func(t *testing.T) {
		svc := &stubService{}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{
			"facility_id": 7,
			"date":        "2026-01-12",
			"slots":       []string{"13:00 - 14:00", "14:00 - 15:00"},
			"total_price": 1000,
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "", svc.lastCreate.UserID)
		assert.Equal(t, []string{"13:00 - 14:00", "14:00 - 15:00"}, svc.lastCreate.Slots)
		require.NotNil(t, svc.lastCreate.ClientTotal)

		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"13:00-14:00", "14:00-15:00"}, resp.Slots)
		assert.Equal(t, "2026-01-12", resp.Date)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("time range as user", func(t *testing.T) {
		svc := &stubService{}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{
			"facility_id": 7,
			"date":        "2026-01-12",
			"start_time":  "2026-01-12T13:00:00",
			"end_time":    "2026-01-12T15:00:00",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, ownerID, svc.lastCreate.UserID)
		assert.Equal(t, []string{"13:00-14:00", "14:00-15:00"}, svc.lastCreate.Slots)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newTestRouter(&stubService{}, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{"date": "2026-01-12"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		r := newTestRouter(&stubService{}, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{"facility_id": 7, "date": "12/01/2026", "slots": []string{"13:00-14:00"}}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "InvalidDate", resp.Code)
	})

	t.Run("conflict carries the slots", func(t *testing.T) {
		svc := &stubService{err: reservation.ErrSlotConflict.WithDetails(reservation.SlotConflictDetails{ConflictingSlots: []string{"14:00-15:00"}})}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{"facility_id": 7, "date": "2026-01-12", "slots": []string{"14:00-15:00"}}, "")
		require.Equal(t, http.StatusConflict, w.Code)

		var resp struct {
			Code    string                          `json:"code"`
			Details reservation.SlotConflictDetails `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "SlotConflict", resp.Code)
		assert.Equal(t, []string{"14:00-15:00"}, resp.Details.ConflictingSlots)
	})

	t.Run("outcome unknown", func(t *testing.T) {
		svc := &stubService{err: reservation.ErrBookingOutcomeUnknown}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodPost, "/v1/reservations", map[string]any{"facility_id": 7, "date": "2026-01-12", "slots": []string{"14:00-15:00"}}, "")
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	userToken, _ := jwt.GenerateAccessToken(ownerID, auth.RoleUser)
	path := "/v1/reservations/7f0e1d2c-3b4a-4958-8776-655443322110/status"

	t.Run("requires auth", func(t *testing.T) {
		r := newTestRouter(&stubService{}, jwt)
		w := do(r, http.MethodPatch, path, UpdateStatusRequest{Status: "request to cancel"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("legacy spelling is accepted", func(t *testing.T) {
		svc := &stubService{}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodPatch, path, UpdateStatusRequest{Status: "request to cancel"}, userToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, reservation.StatusRequestToCancel, svc.lastStatus)
		assert.Equal(t, reservation.Actor{UserID: ownerID}, svc.lastActor)
	})

	t.Run("unknown status", func(t *testing.T) {
		r := newTestRouter(&stubService{}, jwt)
		w := do(r, http.MethodPatch, path, UpdateStatusRequest{Status: "done"}, userToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		r := newTestRouter(&stubService{}, jwt)
		w := do(r, http.MethodPatch, "/v1/reservations/42/status", UpdateStatusRequest{Status: "approved"}, userToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		r := newTestRouter(&stubService{err: reservation.ErrForbidden}, jwt)
		w := do(r, http.MethodPatch, path, UpdateStatusRequest{Status: "approved"}, userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	userToken, _ := jwt.GenerateAccessToken(ownerID, auth.RoleUser)
	adminToken, _ := jwt.GenerateAccessToken(ownerID, auth.RoleAdmin)

	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	rows := []*reservation.Reservation{
		{ID: "a", FacilityID: 7, BookingDate: day, TimeSlots: []string{"13:00-14:00"}, Status: reservation.StatusPending, TotalPrice: 500, CreatedAt: created},
		{ID: "b", FacilityID: 7, BookingDate: day, TimeSlots: []string{"14:00-15:00"}, Status: reservation.StatusApproved, TotalPrice: 500, CreatedAt: created},
	}

	t.Run("non-admin is rejected", func(t *testing.T) {
		r := newTestRouter(&stubService{rows: rows}, jwt)
		w := do(r, http.MethodGet, "/v1/admin/reservations", nil, userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("list with filters", func(t *testing.T) {
		svc := &stubService{rows: rows}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodGet, "/v1/admin/reservations?status=canceled&date_from=2026-01-01&page_size=5", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, reservation.StatusCancelled, svc.lastFilter.Status)
		assert.Equal(t, 5, svc.lastFilter.PageSize)
		require.NotNil(t, svc.lastFilter.DateFrom)

		var page response.PageResponse[ReservationResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Total)
	})

	t.Run("grouped", func(t *testing.T) {
		r := newTestRouter(&stubService{rows: rows}, jwt)
		w := do(r, http.MethodGet, "/v1/admin/reservations/grouped", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Items []GroupResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "approved", body.Items[0].Status)
		assert.Equal(t, []string{"13:00-14:00", "14:00-15:00"}, body.Items[0].Slots)
		assert.Len(t, body.Items[0].Items, 2)
	})

	t.Run("export", func(t *testing.T) {
		svc := &stubService{rows: rows}
		r := newTestRouter(svc, jwt)
		w := do(r, http.MethodGet, "/v1/admin/reservations/export", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.Equal(t, exportLimit, svc.lastFilter.PageSize)
		assert.NotZero(t, w.Body.Len())
	})

	t.Run("bad status filter", func(t *testing.T) {
		r := newTestRouter(&stubService{rows: rows}, jwt)
		w := do(r, http.MethodGet, "/v1/admin/reservations?status=unknown", nil, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
