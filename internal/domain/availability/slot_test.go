//go:build unit

package availability_test

import (
	"testing"
	"time"

	"mentor-booking/internal/domain/availability"
	"mentor-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Run("inclusive days", func(t *testing.T) {
		r, err := availability.ParseRange("2025-06-10", "2025-06-11", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), r.Start())
		assert.Equal(t, time.Date(2025, 6, 11, 17, 0, 0, 0, time.UTC), r.End())
		assert.Equal(t, "2025-06-10:2025-06-11", r.Key())
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := availability.ParseRange("2025-06-11", "2025-06-10", time.UTC)
		assert.ErrorIs(t, err, availability.ErrInvalidRange)
	})

	t.Run("span limited to the lookahead window", func(t *testing.T) {
		tests := []struct {
			name    string
			from    string
			to      string
			wantErr bool
		}{
			{name: "31 days", from: "2025-06-10", to: "2025-07-10"},
			{name: "32 days", from: "2025-06-10", to: "2025-07-11", wantErr: true},
			{name: "from the year 1900", from: "1900-01-01", to: "2025-07-10", wantErr: true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := availability.ParseRange(tt.from, tt.to, time.UTC)
				if tt.wantErr {
					assert.ErrorIs(t, err, availability.ErrInvalidRange)
					return
				}
				assert.NoError(t, err)
			})
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := availability.ParseRange("06/10/2025", "2025-06-10", time.UTC)
		assert.ErrorIs(t, err, availability.ErrMalformedDateText)
	})

	t.Run("business zone is applied", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		r, err := availability.ParseRange("2025-06-10", "2025-06-10", tokyo)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), r.Start().UTC())
	})
}

func TestRange_StartsBefore(t *testing.T) {
	r, err := availability.ParseRange("2025-06-10", "2025-06-10", time.UTC)
	require.NoError(t, err)

	assert.False(t, r.StartsBefore(time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.StartsBefore(time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)))
	assert.True(t, r.StartsBefore(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))

	// 2025-06-10 20:00 UTC is already 2025-06-11 in Tokyo.
	tokyo := time.FixedZone("JST", 9*60*60)
	tr, err := availability.ParseRange("2025-06-10", "2025-06-10", tokyo)
	require.NoError(t, err)
	assert.True(t, tr.StartsBefore(time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)))
}

func TestGenerateGrid(t *testing.T) {
	r, err := availability.ParseRange("2025-06-10", "2025-06-11", time.UTC)
	require.NoError(t, err)

	slots := availability.GenerateGrid(r)
	require.Len(t, slots, 2*32)

	assert.Equal(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2025, 6, 10, 16, 45, 0, 0, time.UTC), slots[31].Start)
	assert.Equal(t, time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC), slots[31].End)
	assert.Equal(t, time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), slots[32].Start)
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.Equal(t, 15*time.Minute, s.End.Sub(s.Start))
	}
}

func TestMarkUnavailable(t *testing.T) {
	r, err := availability.ParseRange("2025-06-10", "2025-06-10", time.UTC)
	require.NoError(t, err)
	grid := availability.GenerateGrid(r)

	busy, err := booking.NewTimeSlot(time.Date(2025, 6, 10, 10, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	earliest := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	got := availability.MarkUnavailable(grid, []booking.TimeSlot{busy}, earliest)
	require.Len(t, got, len(grid))

	byStart := map[string]bool{}
	for _, s := range got {
		byStart[s.Start.Format("15:04")] = s.Available
	}
	assert.False(t, byStart["09:00"])
	assert.False(t, byStart["09:15"])
	assert.True(t, byStart["09:30"])
	assert.True(t, byStart["09:45"])
	assert.False(t, byStart["10:00"])
	assert.False(t, byStart["10:15"])
	assert.True(t, byStart["10:30"])

	assert.True(t, grid[0].Available, "input grid must not be mutated")
}
