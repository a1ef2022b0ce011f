//go:build unit

package builder

import (
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/internal/domain/slot"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

// BaseTime pins the mock clock for booking tests so that policy windows are
// deterministic.
var BaseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	slot     *slot.Slot
	renterID uuid.UUID
	start    time.Time
	end      time.Time
	confirm  bool
	now      time.Time
	policy   booking.Policy
}

func NewBookingBuilder() *BookingBuilder {
	s, err := NewSlotBuilder().BuildDomain()
	if err != nil {
		panic(err)
	}
	return &BookingBuilder{
		slot:     s,
		renterID: uuid.New(),
		start:    BaseTime.Add(time.Hour),
		end:      BaseTime.Add(3 * time.Hour),
		confirm:  true,
		now:      BaseTime,
		policy:   booking.DefaultPolicy(),
	}
}

func (b *BookingBuilder) WithSlot(s *slot.Slot) *BookingBuilder {
	b.slot = s
	return b
}

func (b *BookingBuilder) WithRenterID(id uuid.UUID) *BookingBuilder {
	b.renterID = id
	return b
}

func (b *BookingBuilder) WithInterval(start, end time.Time) *BookingBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *BookingBuilder) WithConfirm(confirm bool) *BookingBuilder {
	b.confirm = confirm
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.now = now
	return b
}

func (b *BookingBuilder) WithPolicy(p booking.Policy) *BookingBuilder {
	b.policy = p
	return b
}

func (b *BookingBuilder) Slot() *slot.Slot {
	return b.slot
}

func (b *BookingBuilder) RenterID() uuid.UUID {
	return b.renterID
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	ts, err := booking.NewTimeSlot(b.start, b.end)
	if err != nil {
		return nil, err
	}

	factory := booking.NewFactory(clock.NewMockClock(b.now), b.policy, booking.NewHourlyPriceCalculator())
	return factory.CreateBooking(b.slot, b.renterID, ts, b.confirm)
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:          uuid.New(),
		SlotID:      b.slot.ID(),
		SlotNumber:  b.slot.Number(),
		SlotOwnerID: b.slot.OwnerID(),
		RenterID:    b.renterID,
		RenterEmail: "renter@example.com",
		StartTime:   b.start,
		EndTime:     b.end,
		Status:      booking.StatusConfirmed.String(),
		PriceCents:  20000,
		CreatedAt:   b.now,
		UpdatedAt:   b.now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:         uuid.New(),
		SlotID:     b.slot.ID(),
		SlotNumber: b.slot.Number(),
		StartTime:  b.start,
		EndTime:    b.end,
		Status:     booking.StatusConfirmed.String(),
		PriceCents: 20000,
		CreatedAt:  b.now,
	}
}
