package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", at(9), at(10), at(11), at(12), false},
		{"back to back", at(9), at(10), at(10), at(11), false},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"contained", at(9), at(12), at(10), at(11), true},
		{"identical", at(9), at(10), at(9), at(10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd), "symmetry")
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusBooked.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("pending").Valid())
}
