package reservation

import "strings"

type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
	StatusRequestToCancel Status = "request-to-cancel"

	// Legacy statuses written by the previous payment flow. They hold
	// slots like approved but are never set by this service.
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
)

var statusAliases = map[string]Status{
	"pending":           StatusPending,
	"approved":          StatusApproved,
	"approve":           StatusApproved,
	"rejected":          StatusRejected,
	"cancelled":         StatusCancelled,
	"canceled":          StatusCancelled,
	"request-to-cancel": StatusRequestToCancel,
	"request to cancel": StatusRequestToCancel,
	"request_to_cancel": StatusRequestToCancel,
	"requestcancel":     StatusRequestToCancel,
	"confirmed":         StatusConfirmed,
	"paid":              StatusPaid,
}

// ParseStatus maps any stored or requested spelling to its canonical status.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// Occupies reports whether a reservation in status s holds its slots.
// A pending cancellation still holds them until it is approved.
func (s Status) Occupies() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusPaid, StatusRequestToCancel:
		return true
	}
	return false
}

// TerminalNegative reports whether s frees the reservation's slots for good.
func (s Status) TerminalNegative() bool {
	return s == StatusRejected || s == StatusCancelled
}

// occupyingStatuses lists the canonical statuses that hold slots.
var occupyingStatuses = []Status{
	StatusPending, StatusApproved, StatusConfirmed, StatusPaid, StatusRequestToCancel,
}

// spellings returns every stored spelling of the given statuses, for queries
// over rows written before spellings were canonical.
func spellings(statuses ...Status) []string {
	var out []string
	for alias, s := range statusAliases {
		for _, want := range statuses {
			if s == want {
				out = append(out, alias)
			}
		}
	}
	return out
}

var transitions = map[Status][]Status{
	StatusPending:         {StatusApproved, StatusRejected, StatusRequestToCancel},
	StatusApproved:        {StatusRequestToCancel},
	StatusConfirmed:       {StatusRequestToCancel},
	StatusPaid:            {StatusRequestToCancel},
	StatusRequestToCancel: {StatusCancelled, StatusApproved},
}

// CanTransition reports whether from may move to to. Rejected and cancelled
// are terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Settable reports whether s may be requested as a target status.
func (s Status) Settable() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusRequestToCancel:
		return true
	}
	return false
}
