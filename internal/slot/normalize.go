package slot

import (
	"strings"
	"time"
)

// Kind tells which stored shape a Times value carries.
type Kind int

const (
	KindNone Kind = iota
	KindLabels
	KindRange
)

// Times is the stored time representation of a reservation: either an
// explicit label array or a start/end timestamp pair.
type Times struct {
	Kind   Kind
	Labels []string
	Start  time.Time
	End    time.Time
}

// FromLabels wraps an explicit label array.
func FromLabels(labels []string) Times {
	if len(labels) == 0 {
		return Times{Kind: KindNone}
	}
	return Times{Kind: KindLabels, Labels: labels}
}

// FromRange wraps a start/end timestamp pair.
func FromRange(start, end time.Time) Times {
	if start.IsZero() || end.IsZero() {
		return Times{Kind: KindNone}
	}
	return Times{Kind: KindRange, Start: start, End: end}
}

// FromRawRange wraps a start/end pair given as strings. Zone-less strings
// are read in loc. Unparseable input yields KindNone.
func FromRawRange(start, end string, loc *time.Location) Times {
	s, ok := ParseTimestamp(start, loc)
	if !ok {
		return Times{Kind: KindNone}
	}
	e, ok := ParseTimestamp(end, loc)
	if !ok {
		return Times{Kind: KindNone}
	}
	return FromRange(s, e)
}

// FromRecord picks the representation of a stored row. The label array
// wins when present.
func FromRecord(labels []string, start, end *time.Time) Times {
	if len(labels) > 0 {
		return FromLabels(labels)
	}
	if start != nil && end != nil {
		return FromRange(*start, *end)
	}
	return Times{Kind: KindNone}
}

// Normalize returns the canonical labels occupied by t, in day order.
// Ranges are read in loc and walked hour by hour; a trailing partial hour
// still occupies its whole slot. Malformed input yields no labels.
func Normalize(t Times, loc *time.Location) []string {
	switch t.Kind {
	case KindLabels:
		out := make([]string, 0, len(t.Labels))
		for _, raw := range t.Labels {
			if l, ok := ParseLabel(raw); ok {
				out = append(out, l)
			}
		}
		return Sort(out)
	case KindRange:
		return rangeLabels(t.Start, t.End, loc)
	default:
		return []string{}
	}
}

func rangeLabels(start, end time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return []string{}
	}
	start, end = start.In(loc), end.In(loc)

	cursor := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, loc)
	out := make([]string, 0, 4)
	// A day has at most 24 distinct hour labels.
	for i := 0; i < 24 && cursor.Before(end); i++ {
		out = append(out, hourLabel(cursor.Hour()))
		cursor = cursor.Add(time.Hour)
	}
	return Sort(out)
}

// Bounds returns the timestamps spanned by canonical labels on date, read
// in loc. A label ending at 00:00 ends on the following day.
func Bounds(labels []string, date time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	sorted := Sort(labels)
	if len(sorted) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first := strings.SplitN(sorted[0], "-", 2)
	last := strings.SplitN(sorted[len(sorted)-1], "-", 2)
	if len(first) != 2 || len(last) != 2 {
		return time.Time{}, time.Time{}, false
	}
	sh, sm, ok := parseClock(first[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	lh, lm, ok := parseClock(last[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	eh, em, ok := parseClock(last[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	start := day.Add(time.Duration(sh)*time.Hour + time.Duration(sm)*time.Minute)
	lastStart := day.Add(time.Duration(lh)*time.Hour + time.Duration(lm)*time.Minute)
	end := day.Add(time.Duration(eh)*time.Hour + time.Duration(em)*time.Minute)
	for !end.After(lastStart) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, true
}

// Window renders the HH:MM-HH:MM span of two timestamps in loc.
func Window(start, end time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return start.In(loc).Format("15:04") + "-" + end.In(loc).Format("15:04")
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp reads the timestamp shapes found in stored rows: RFC 3339,
// Postgres text output, and zone-less local forms (read in loc).
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
