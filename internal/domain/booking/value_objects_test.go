//go:build unit

package booking_test

import (
	"testing"
	"time"

	"parkshare/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlot(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid interval", func(t *testing.T) {
		ts, err := booking.NewTimeSlot(base, base.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, ts.Duration())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base.Add(-time.Hour))
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("zero-length interval", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("tstzrange rendering is half-open", func(t *testing.T) {
		ts, err := booking.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "[2026-03-01T10:00:00Z,2026-03-01T11:00:00Z)", ts.ToTstzrange())
	})
}

func TestTimeSlot_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mk := func(startHour, endHour int) booking.TimeSlot {
		ts, err := booking.NewTimeSlot(base.Add(time.Duration(startHour)*time.Hour), base.Add(time.Duration(endHour)*time.Hour))
		require.NoError(t, err)
		return ts
	}

	cases := []struct {
		name     string
		a, b     booking.TimeSlot
		overlaps bool
	}{
		{name: "identical", a: mk(0, 2), b: mk(0, 2), overlaps: true},
		{name: "partial overlap", a: mk(0, 2), b: mk(1, 3), overlaps: true},
		{name: "contained", a: mk(0, 4), b: mk(1, 2), overlaps: true},
		{name: "adjacent half-open", a: mk(0, 2), b: mk(2, 4), overlaps: false},
		{name: "disjoint", a: mk(0, 1), b: mk(2, 3), overlaps: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
		})
	}
}

func TestMoney(t *testing.T) {
	t.Run("non-negative", func(t *testing.T) {
		m, err := booking.NewMoney(20000)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), m.Cents())
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, err := booking.NewMoney(-1)
		assert.Error(t, err)
	})
}
