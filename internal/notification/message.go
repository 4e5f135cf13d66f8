package notification

import (
	"fmt"
	"time"
)

var statusTitles = map[string]string{
	"approved":  "Booking approved",
	"rejected":  "Booking rejected",
	"cancelled": "Booking cancelled",
	"pending":   "Booking pending review",
}

// BookingStatusMessage builds the title and body sent when an administrator
// moves a reservation to status. The body names the facility and the
// booked window in loc.
func BookingStatusMessage(facilityName, status string, start, end time.Time, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.UTC
	}
	title, ok := statusTitles[status]
	if !ok {
		title = "Booking updated"
	}

	when := "an unspecified time"
	if !start.IsZero() && !end.IsZero() {
		s, e := start.In(loc), end.In(loc)
		when = fmt.Sprintf("%s, %s-%s", s.Format("Mon 02 Jan 2006"), s.Format("15:04"), e.Format("15:04"))
	}
	if facilityName == "" {
		facilityName = "your facility"
	}

	msg := fmt.Sprintf("Your booking for %s on %s was changed to %q by an administrator.", facilityName, when, status)
	return title, msg
}
