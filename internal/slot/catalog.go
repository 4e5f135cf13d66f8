package slot

import "fmt"

const (
	// OpeningHour is the first bookable hour of a facility day.
	OpeningHour = 13
	// ClosingHour is the hour the last slot ends. 24 renders as "00:00".
	ClosingHour = 24
)

// Slot is one bookable one-hour interval of a facility day.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Label returns the canonical "HH:MM-HH:MM" form of the slot.
func (s Slot) Label() string {
	return s.Start + "-" + s.End
}

// GenerateSlots returns the fixed daily schedule, in order.
// The schedule is the same for every facility and every date.
func GenerateSlots() []Slot {
	slots := make([]Slot, 0, ClosingHour-OpeningHour)
	for h := OpeningHour; h < ClosingHour; h++ {
		slots = append(slots, Slot{
			Start: clock(h, 0),
			End:   clock(h+1, 0),
		})
	}
	return slots
}

// Labels returns the canonical labels of GenerateSlots.
func Labels() []string {
	slots := GenerateSlots()
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label()
	}
	return labels
}

// InCatalog reports whether label is a canonical label of the daily schedule.
func InCatalog(label string) bool {
	for _, l := range Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// hourLabel is the canonical label of the hour starting at h.
func hourLabel(h int) string {
	return clock(h, 0) + "-" + clock(h+1, 0)
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h%24, m)
}
