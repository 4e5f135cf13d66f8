package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCreation(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)
	user := "2b1a2c9e-3c0f-4a55-9a43-6f5d6f7b8c01"
	at := func(h int) *time.Time {
		v := time.Date(2026, 1, 12, h, 0, 0, 0, loc)
		return &v
	}

	rows := []*Reservation{
		{ID: "b", FacilityID: 7, UserID: &user, BookingDate: day, TimeSlots: []string{"16:00-17:00"}, Status: StatusPending, TotalPrice: 500, CreatedAt: t1},
		{ID: "x", FacilityID: 9, BookingDate: day, StartTime: at(20), EndTime: at(22), Status: StatusRejected, TotalPrice: 800.1, CreatedAt: t2},
		{ID: "a", FacilityID: 7, UserID: &user, BookingDate: day, TimeSlots: []string{"13:00 - 14:00", "14:00-15:00"}, Status: StatusPending, TotalPrice: 1000.2, CreatedAt: t1},
		{ID: "y", FacilityID: 9, BookingDate: day, TimeSlots: []string{"23:00-00:00"}, Status: StatusRequestToCancel, TotalPrice: 100.2, CreatedAt: t2},
	}

	groups := GroupByCreation(rows, loc)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "a", first.ID, "earliest start represents the group")
	assert.Equal(t, []string{"13:00-14:00", "14:00-15:00", "16:00-17:00"}, first.Slots)
	assert.InDelta(t, 1500.2, first.TotalPrice, 0.001)
	assert.Equal(t, StatusPending, first.Status)
	require.NotNil(t, first.Start)
	require.NotNil(t, first.End)
	assert.True(t, first.Start.Equal(*at(13)))
	assert.True(t, first.End.Equal(*at(17)))
	assert.Len(t, first.Items, 2)

	second := groups[1]
	assert.Equal(t, "x", second.ID)
	assert.Equal(t, []string{"20:00-21:00", "21:00-22:00", "23:00-00:00"}, second.Slots)
	assert.Equal(t, StatusRejected, second.Status)
	assert.InDelta(t, 900.3, second.TotalPrice, 0.001)
	assert.True(t, second.End.Equal(time.Date(2026, 1, 13, 0, 0, 0, 0, loc)))

	// Input rows are untouched.
	assert.Equal(t, []string{"13:00 - 14:00", "14:00-15:00"}, rows[2].TimeSlots)
}

func TestGroupStatusPriority(t *testing.T) {
	mk := func(ss ...Status) []*Reservation {
		out := make([]*Reservation, len(ss))
		for i, s := range ss {
			out[i] = &Reservation{Status: s}
		}
		return out
	}
	assert.Equal(t, StatusApproved, groupStatus(mk(StatusPending, StatusRejected, StatusApproved)))
	assert.Equal(t, StatusRejected, groupStatus(mk(StatusRequestToCancel, StatusRejected)))
	assert.Equal(t, StatusRequestToCancel, groupStatus(mk(StatusPending, StatusRequestToCancel)))
	assert.Equal(t, StatusCancelled, groupStatus(mk(StatusCancelled, StatusPending)))
}

func TestGroupByCreationEmpty(t *testing.T) {
	assert.Empty(t, GroupByCreation(nil, time.UTC))
}
