package booking

import (
	"errors"
	"time"

	"parkshare/internal/domain/slot"
	"parkshare/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrDurationTooShort = errors.New("booking shorter than minimum duration")
	ErrDurationTooLong  = errors.New("booking longer than maximum duration")
	ErrBeyondHorizon    = errors.New("booking starts beyond the advance horizon")
	ErrStartInPast      = errors.New("booking starts in the past")
	ErrSlotNotActive    = errors.New("slot is not active")
	ErrOwnedSlot        = errors.New("owned slot may be booked only by its owner")
)

// Policy bounds accepted booking intervals relative to the current time.
type Policy struct {
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AdvanceHorizon time.Duration
	PastGrace      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MinDuration:    time.Hour,
		MaxDuration:    24 * time.Hour,
		AdvanceHorizon: 30 * 24 * time.Hour,
		PastGrace:      time.Hour,
	}
}

type Factory struct {
	clock      clock.Clock
	policy     Policy
	calculator PriceCalculator
}

func NewFactory(clk clock.Clock, policy Policy, calculator PriceCalculator) *Factory {
	return &Factory{
		clock:      clk,
		policy:     policy,
		calculator: calculator,
	}
}

// CreateBooking validates the interval against policy, enforces the
// owned-slot rule, and prices the booking from the slot's rate. The booking
// inherits the slot's community; the caller has already verified that the
// renter belongs to it.
func (f *Factory) CreateBooking(s *slot.Slot, renterID uuid.UUID, ts TimeSlot, confirm bool) (*Booking, error) {
	if !s.IsActive() {
		return nil, ErrSlotNotActive
	}
	if !s.CanBeBookedBy(renterID) {
		return nil, ErrOwnedSlot
	}
	if err := f.ValidateInterval(ts); err != nil {
		return nil, err
	}

	cents := f.calculator.CalculatePriceCents(s, ts)
	price, err := NewMoney(cents)
	if err != nil {
		return nil, ErrNegativePrice
	}

	status := StatusPending
	if confirm {
		status = StatusConfirmed
	}

	return &Booking{
		id:          uuid.New(),
		communityID: s.CommunityID(),
		slotID:      s.ID(),
		renterID:    renterID,
		timeSlot:    ts,
		status:      status,
		price:       price,
	}, nil
}

// ValidateInterval checks the interval against the policy bounds relative to
// the injected clock. It needs no slot, so callers can reject an out-of-policy
// request before loading anything.
func (f *Factory) ValidateInterval(ts TimeSlot) error {
	d := ts.Duration()
	if d < f.policy.MinDuration {
		return ErrDurationTooShort
	}
	if d > f.policy.MaxDuration {
		return ErrDurationTooLong
	}

	now := f.clock.Now()
	if ts.Start().After(now.Add(f.policy.AdvanceHorizon)) {
		return ErrBeyondHorizon
	}
	if ts.Start().Before(now.Add(-f.policy.PastGrace)) {
		return ErrStartInPast
	}
	return nil
}
