package reservation

import (
	"context"
	"time"

	"github.com/nekogravitycat/arena-booking-backend/internal/slot"
)

// SlotAvailability is one catalog slot with its occupancy on a facility-day.
type SlotAvailability struct {
	Label     string `json:"label"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Availability is the schedule of a facility-day.
type Availability struct {
	FacilityID int64
	Date       time.Time
	Slots      []SlotAvailability
	Occupied   []string
}

// occupancy unions the normalized labels of every reservation holding slots.
func occupancy(reservations []*Reservation, loc *time.Location) slot.Set {
	occupied := slot.NewSet()
	for _, r := range reservations {
		if !r.Status.Occupies() {
			continue
		}
		occupied.Add(r.Slots(loc)...)
	}
	return occupied
}

func (s *service) OccupiedSlots(ctx context.Context, facilityID int64, date time.Time) ([]string, error) {
	reservations, err := s.repo.ListOccupying(ctx, facilityID, date)
	if err != nil {
		return nil, ErrStorageUnavailable.WithCause(err)
	}
	return occupancy(reservations, s.loc).Sorted(), nil
}

func (s *service) Availability(ctx context.Context, facilityID int64, date time.Time) (*Availability, error) {
	if _, err := s.facilities.GetByID(ctx, facilityID); err != nil {
		return nil, storageErr(err)
	}

	occupied, err := s.OccupiedSlots(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}
	set := slot.NewSet(occupied...)

	catalog := slot.GenerateSlots()
	out := &Availability{
		FacilityID: facilityID,
		Date:       date,
		Slots:      make([]SlotAvailability, len(catalog)),
		Occupied:   occupied,
	}
	for i, sl := range catalog {
		out.Slots[i] = SlotAvailability{
			Label:     sl.Label(),
			Start:     sl.Start,
			End:       sl.End,
			Available: !set.Has(sl.Label()),
		}
	}
	return out, nil
}
