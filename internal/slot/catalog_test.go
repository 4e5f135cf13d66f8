package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots()
	require.Len(t, slots, 11)

	assert.Equal(t, "13:00-14:00", slots[0].Label())
	assert.Equal(t, "23:00-00:00", slots[len(slots)-1].Label())

	seen := map[string]bool{}
	for i, s := range slots {
		assert.False(t, seen[s.Label()], "duplicate slot %s", s.Label())
		seen[s.Label()] = true
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start, "slots must be contiguous")
		}
	}

	// Regenerating yields the same schedule.
	assert.Equal(t, slots, GenerateSlots())
}

func TestInCatalog(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"13:00-14:00", true},
		{"23:00-00:00", true},
		{"12:00-13:00", false},
		{"13:00 - 14:00", false},
		{"00:00-01:00", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, InCatalog(tt.label))
		})
	}
}
