package slot

import (
	"sort"
	"strconv"
	"strings"
)

// separators accepted between the two ends of a label.
var separators = []string{"–", "—", "-"}

// ParseLabel reads a slot label in any of the shapes found in stored data
// ("13:00-14:00", "13:00 - 14:00", "9:00-10:00", "23:00-24:00", en dash)
// and returns its canonical "HH:MM-HH:MM" form.
func ParseLabel(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	var left, right string
	found := false
	for _, sep := range separators {
		if i := strings.Index(raw, sep); i > 0 {
			left, right = raw[:i], raw[i+len(sep):]
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	sh, sm, ok := parseClock(left)
	if !ok || sh == 24 {
		return "", false
	}
	eh, em, ok := parseClock(right)
	if !ok {
		return "", false
	}
	return clock(sh, sm) + "-" + clock(eh, em), true
}

// parseClock parses "H:MM", "HH:MM" or "HH:MM:SS". Hour 24 is accepted only as 24:00.
func parseClock(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 || len(parts[0]) > 2 {
		return 0, 0, false
	}
	if len(parts[1]) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	if h == 24 && m != 0 {
		return 0, 0, false
	}
	return h, m, true
}

// startMinutes returns the minute offset of a canonical label's start,
// counted from opening so that labels after midnight sort last.
func startMinutes(label string) int {
	h, m, ok := parseClock(strings.SplitN(label, "-", 2)[0])
	if !ok {
		return 0
	}
	return (h*60 + m - OpeningHour*60 + 24*60) % (24 * 60)
}

// Set is an unordered collection of canonical slot labels.
type Set map[string]struct{}

// NewSet builds a Set from canonical labels.
func NewSet(labels ...string) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

func (s Set) Add(labels ...string) {
	for _, l := range labels {
		s[l] = struct{}{}
	}
}

func (s Set) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Intersect returns the labels of other that are also in s, in day order.
func (s Set) Intersect(other []string) []string {
	var out []string
	for _, l := range Sort(other) {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Sorted returns the labels in day order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	return Sort(out)
}

// Sort orders canonical labels by start time within the operating day
// and drops duplicates. The input is not modified.
func Sort(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := startMinutes(out[i]), startMinutes(out[j])
		if mi != mj {
			return mi < mj
		}
		return out[i] < out[j]
	})
	return out
}
