package shared

import (
	"context"
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/internal/domain/slot"
	"parkshare/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories reachable inside one transaction. Slot and
// booking repositories are handed out already bound to a community; there is
// no way to obtain one without naming the tenant, so an unfiltered query
// cannot be written by accident.
type Tx interface {
	Slots(communityID uuid.UUID) SlotRepository
	Bookings(communityID uuid.UUID) BookingRepository
	Users() UserRepository
}

type SlotRepository interface {
	// FindByID returns the slot regardless of status; wrong tenant is
	// indistinguishable from absent.
	FindByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error)
	// FindActiveByID additionally requires status = active.
	FindActiveByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error)
	Create(ctx context.Context, s *slot.Slot) error
	// Update persists number, type, rate and status. Community and owner
	// columns are never written.
	Update(ctx context.Context, s *slot.Slot) error
	// HasBlockingBookings reports whether any non-cancelled booking
	// references the slot (guards soft deletion).
	HasBlockingBookings(ctx context.Context, slotID uuid.UUID) (bool, error)
}

type BookingRepository interface {
	FindByID(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
	// FindByIDForUpdate takes a row lock so a concurrent cancel cannot
	// interleave with a status transition.
	FindByIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
	// Create inserts the booking; an interval collision with another
	// non-cancelled booking surfaces as an exclusion violation.
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	// HasOverlap is the in-transaction conflict pre-check over
	// non-cancelled bookings of the slot.
	HasOverlap(ctx context.Context, slotID uuid.UUID, ts booking.TimeSlot, excludeBookingID *uuid.UUID) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (*user.User, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}
