package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2025, 6, 17, 23, 45, 12, 987, loc)
	got := startOfDay(in)
	assert.Equal(t, time.Date(2025, 6, 17, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestStartOfISOWeek(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2025, 6, 18, 15, 0, 0, 0, loc), time.Date(2025, 6, 16, 0, 0, 0, 0, loc)},
		{"monday itself", time.Date(2025, 6, 16, 0, 0, 1, 0, loc), time.Date(2025, 6, 16, 0, 0, 0, 0, loc)},
		{"sunday rolls back", time.Date(2025, 6, 22, 10, 0, 0, 0, loc), time.Date(2025, 6, 16, 0, 0, 0, 0, loc)},
		{"across month edge", time.Date(2025, 7, 1, 8, 0, 0, 0, loc), time.Date(2025, 6, 30, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, startOfISOWeek(tc.in))
		})
	}
}
