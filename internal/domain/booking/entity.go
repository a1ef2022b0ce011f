package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("transition not permitted from current status")
	ErrFinished          = errors.New("cannot cancel a finished booking")
	ErrNotParticipant    = errors.New("caller is neither renter nor slot owner")
	ErrNegativePrice     = errors.New("price cannot be negative")
)

// Booking reserves one slot for a half-open time interval. The community is
// copied from the slot at creation and never changes afterwards.
type Booking struct {
	id          uuid.UUID
	communityID uuid.UUID
	slotID      uuid.UUID
	renterID    uuid.UUID
	timeSlot    TimeSlot
	status      Status
	price       Money
	createdAt   time.Time
	updatedAt   time.Time
}

func ReconstructBooking(
	id, communityID, slotID, renterID uuid.UUID,
	timeSlot TimeSlot,
	status Status,
	price Money,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		communityID: communityID,
		slotID:      slotID,
		renterID:    renterID,
		timeSlot:    timeSlot,
		status:      status,
		price:       price,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) CommunityID() uuid.UUID { return b.communityID }
func (b *Booking) SlotID() uuid.UUID      { return b.slotID }
func (b *Booking) RenterID() uuid.UUID    { return b.renterID }
func (b *Booking) TimeSlot() TimeSlot     { return b.timeSlot }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) Price() Money           { return b.price }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

// Blocks reports whether the booking still occupies its interval for the
// purposes of the exclusion invariant.
func (b *Booking) Blocks() bool {
	return b.status != StatusCancelled
}

// CancellableBy implements the multi-party rule: the renter or the slot
// owner may cancel. slotOwnerID is nil for shared-pool slots.
func (b *Booking) CancellableBy(callerID uuid.UUID, slotOwnerID *uuid.UUID) bool {
	if b.renterID == callerID {
		return true
	}
	return slotOwnerID != nil && *slotOwnerID == callerID
}

// Cancel transitions to cancelled. Cancelling an already-cancelled booking
// is a no-op so that retries observe the same terminal state.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return nil
	}
	if b.status.IsTerminal() {
		return ErrFinished
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) Confirm() error {
	return b.transitionTo(StatusConfirmed)
}

func (b *Booking) MarkCompleted() error {
	return b.transitionTo(StatusCompleted)
}

func (b *Booking) MarkNoShow() error {
	return b.transitionTo(StatusNoShow)
}

func (b *Booking) transitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}
