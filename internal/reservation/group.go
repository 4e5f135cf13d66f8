package reservation

import (
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

// Group is one logical booking reassembled from rows persisted together.
type Group struct {
	CreatedAt    time.Time
	ID           string
	FacilityID   int64
	FacilityName string
	UserID       *string
	BookingDate  time.Time
	Start        *time.Time
	End          *time.Time
	Slots        []string
	TotalPrice   float64
	Status       Status
	Items        []*Reservation
}

// GroupByCreation merges rows sharing a creation timestamp. Groups keep the
// order in which their first row appears. Rows are not modified.
func GroupByCreation(rows []*Reservation, loc *time.Location) []Group {
	index := map[int64]int{}
	var groups []Group

	for _, r := range rows {
		key := r.CreatedAt.UnixNano()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{CreatedAt: r.CreatedAt})
		}
		groups[i].Items = append(groups[i].Items, r)
	}

	for i := range groups {
		mergeGroup(&groups[i], loc)
	}
	return groups
}

func mergeGroup(g *Group, loc *time.Location) {
	labels := slot.NewSet()
	earliest := g.Items[0]
	var total float64

	for _, r := range g.Items {
		total += r.TotalPrice
		labels.Add(r.Slots(loc)...)

		start, end, ok := r.Window(loc)
		if !ok {
			continue
		}
		if g.Start == nil || start.Before(*g.Start) {
			st := start
			g.Start = &st
			earliest = r
		}
		if g.End == nil || end.After(*g.End) {
			en := end
			g.End = &en
		}
	}

	g.ID = earliest.ID
	g.FacilityID = earliest.FacilityID
	g.FacilityName = earliest.FacilityName
	g.UserID = earliest.UserID
	g.BookingDate = earliest.BookingDate
	g.TotalPrice = roundCents(total)
	g.Slots = labels.Sorted()
	g.Status = groupStatus(g.Items)
}

// groupStatus picks one status for a group: approved, then rejected, then
// request-to-cancel, otherwise the first row's status.
func groupStatus(items []*Reservation) Status {
	for _, want := range []Status{StatusApproved, StatusRejected, StatusRequestToCancel} {
		for _, r := range items {
			if r.Status == want {
				return want
			}
		}
	}
	return items[0].Status
}
