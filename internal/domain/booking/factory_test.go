//go:build unit

package booking_test

import (
	"testing"
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factoryCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func runFactoryCases(t *testing.T, cases []factoryCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewBookingBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestFactory_CreateBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, b.Slot().ID(), actual.SlotID())
		assert.Equal(t, b.Slot().CommunityID(), actual.CommunityID())
		assert.Equal(t, b.RenterID(), actual.RenterID())
		assert.Equal(t, booking.StatusConfirmed, actual.Status())
		// 2 hours at 10000 cents/hour
		assert.Equal(t, int64(20000), actual.Price().Cents())
	})

	t.Run("caller intent selects pending status", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().WithConfirm(false).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, actual.Status())
	})

	t.Run("interval policy", func(t *testing.T) {
		runFactoryCases(t, []factoryCase{
			{
				name: "minimum duration exactly 1h OK",
				mutate: func(b *builder.BookingBuilder) {
					b.WithInterval(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour))
				},
			},
			{
				name: "below minimum duration",
				mutate: func(b *builder.BookingBuilder) {
					b.WithInterval(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(time.Hour+30*time.Minute))
				},
				errIs: booking.ErrDurationTooShort,
			},
			{
				name: "maximum duration exactly 24h OK",
				mutate: func(b *builder.BookingBuilder) {
					b.WithInterval(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(25*time.Hour))
				},
			},
			{
				name: "above maximum duration",
				mutate: func(b *builder.BookingBuilder) {
					b.WithInterval(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(26*time.Hour))
				},
				errIs: booking.ErrDurationTooLong,
			},
			{
				name: "start beyond 30 day horizon",
				mutate: func(b *builder.BookingBuilder) {
					start := builder.BaseTime.Add(31 * 24 * time.Hour)
					b.WithInterval(start, start.Add(2*time.Hour))
				},
				errIs: booking.ErrBeyondHorizon,
			},
			{
				name: "start within past grace period OK",
				mutate: func(b *builder.BookingBuilder) {
					start := builder.BaseTime.Add(-30 * time.Minute)
					b.WithInterval(start, start.Add(2*time.Hour))
				},
			},
			{
				name: "start materially in the past",
				mutate: func(b *builder.BookingBuilder) {
					start := builder.BaseTime.Add(-2 * time.Hour)
					b.WithInterval(start, start.Add(3*time.Hour))
				},
				errIs: booking.ErrStartInPast,
			},
		})
	})

	t.Run("owned slot rule", func(t *testing.T) {
		owner := uuid.New()
		stranger := uuid.New()

		ownedSlot, err := builder.NewSlotBuilder().WithOwner(owner).BuildDomain()
		require.NoError(t, err)

		t.Run("owner may book own slot", func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().WithSlot(ownedSlot).WithRenterID(owner).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, owner, actual.RenterID())
		})

		t.Run("non-owner rejected", func(t *testing.T) {
			_, err := builder.NewBookingBuilder().WithSlot(ownedSlot).WithRenterID(stranger).BuildDomain()
			assert.ErrorIs(t, err, booking.ErrOwnedSlot)
		})

		t.Run("shared slot bookable by anyone", func(t *testing.T) {
			sharedSlot, err := builder.NewSlotBuilder().Shared().BuildDomain()
			require.NoError(t, err)

			actual, err := builder.NewBookingBuilder().WithSlot(sharedSlot).WithRenterID(stranger).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, stranger, actual.RenterID())
		})
	})

	t.Run("deleted slot rejected", func(t *testing.T) {
		s, err := builder.NewSlotBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, s.MarkDeleted())

		_, err = builder.NewBookingBuilder().WithSlot(s).BuildDomain()
		assert.ErrorIs(t, err, booking.ErrSlotNotActive)
	})

	t.Run("price derives solely from rate and duration", func(t *testing.T) {
		s, err := builder.NewSlotBuilder().WithRateCentsPerHour(12550).BuildDomain()
		require.NoError(t, err)

		// 90 minutes at 125.50/hour = 188.25
		actual, err := builder.NewBookingBuilder().
			WithSlot(s).
			WithRenterID(uuid.New()).
			WithPolicy(booking.Policy{
				MinDuration:    30 * time.Minute,
				MaxDuration:    24 * time.Hour,
				AdvanceHorizon: 30 * 24 * time.Hour,
				PastGrace:      time.Hour,
			}).
			WithInterval(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(time.Hour+90*time.Minute)).
			BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, int64(18825), actual.Price().Cents())
	})
}
