package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteGroups(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	created := time.Date(2026, 1, 10, 9, 30, 0, 0, loc)
	start := time.Date(2026, 1, 12, 13, 0, 0, 0, loc)
	end := time.Date(2026, 1, 12, 15, 0, 0, 0, loc)
	user := "5b0c6f2e-8a41-4c1a-9d7e-2f0a6c3b9e11"

	groups := []reservation.Group{
		{
			CreatedAt:    created,
			ID:           "r-1",
			FacilityName: "Court 7",
			UserID:       &user,
			BookingDate:  time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			Start:        &start,
			End:          &end,
			Slots:        []string{"13:00-14:00", "14:00-15:00"},
			TotalPrice:   1000,
			Status:       reservation.StatusPending,
			Items:        make([]*reservation.Reservation, 2),
		},
		{
			CreatedAt:   created.Add(time.Minute),
			ID:          "r-2",
			BookingDate: time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
			Status:      reservation.StatusApproved,
			Items:       make([]*reservation.Reservation, 1),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGroups(&buf, groups, loc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "2026-01-10 09:30:00", rows[1][0])
	assert.Equal(t, "Court 7", rows[1][2])
	assert.Equal(t, "2026-01-12", rows[1][4])
	assert.Equal(t, "13:00", rows[1][5])
	assert.Equal(t, "15:00", rows[1][6])
	assert.Equal(t, "13:00-14:00, 14:00-15:00", rows[1][7])
	assert.Equal(t, "1000", rows[1][8])
	assert.Equal(t, "pending", rows[1][9])
	assert.Equal(t, "2", rows[1][10])

	assert.Equal(t, "guest", rows[2][3])
	assert.Equal(t, "approved", rows[2][9])
}
