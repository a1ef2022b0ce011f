package commands

import (
	"context"
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/internal/infra"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type CreateBookingParams struct {
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	// Confirm selects the initial status: confirmed when true, pending
	// otherwise.
	Confirm bool
}

// BookingCommands is the write side of the reservation engine. All slot and
// booking rows are mutated through these entry points only.
type BookingCommands interface {
	Create(ctx context.Context, actor shared.Actor, p CreateBookingParams) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	MarkCompleted(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	MarkNoShow(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	factory        *booking.Factory
	bookingQueries queries.BookingQueries
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	bookingQueries queries.BookingQueries,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		factory:        factory,
		bookingQueries: bookingQueries,
	}
}

// Create validates, prices and persists a booking. The overlap pre-check and
// the insert run inside one transaction; the database exclusion constraint
// over (slot_id, time_range) of non-cancelled rows is the authoritative
// guard, so a race loser surfaces as ErrSlotConflict rather than a
// double-booking.
func (c *bookingCommandsImpl) Create(ctx context.Context, actor shared.Actor, p CreateBookingParams) (*queries.BookingView, error) {
	ts, err := booking.NewTimeSlot(p.StartTime, p.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}
	// Policy bounds are slot-independent and checked before the slot lookup,
	// so an out-of-policy request reports the policy error even when the slot
	// does not exist.
	if err := c.factory.ValidateInterval(ts); err != nil {
		return nil, markFactoryErr(err)
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		slots := tx.Slots(actor.CommunityID)
		bookings := tx.Bookings(actor.CommunityID)

		s, err := slots.FindActiveByID(ctx, p.SlotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		b, err := c.factory.CreateBooking(s, actor.UserID, ts, p.Confirm)
		if err != nil {
			return markFactoryErr(err)
		}

		overlap, err := bookings.HasOverlap(ctx, s.ID(), ts, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlap {
			return ErrSlotConflict
		}

		bookingID, err = bookings.Create(ctx, b)
		if err != nil {
			if infra.IsKind(err, infra.KindExclusionViolated) {
				return errs.Mark(err, ErrSlotConflict)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, actor.CommunityID, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// Cancel is idempotent: cancelling an already-cancelled booking returns the
// current state without error. Finished bookings (completed, no_show) refuse
// cancellation.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookings := tx.Bookings(actor.CommunityID)

		b, err := bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		s, err := tx.Slots(actor.CommunityID).FindByID(ctx, b.SlotID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !b.CancellableBy(actor.UserID, s.OwnerID()) && !actor.IsAdmin() {
			return ErrForbidden
		}

		if b.IsCancelled() {
			return nil
		}
		if err := b.Cancel(); err != nil {
			if errors.Is(err, booking.ErrFinished) {
				return errs.Mark(err, ErrPolicyViolation)
			}
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := bookings.UpdateStatus(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, actor.CommunityID, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *bookingCommandsImpl) MarkCompleted(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return c.finish(ctx, actor, bookingID, (*booking.Booking).MarkCompleted)
}

func (c *bookingCommandsImpl) MarkNoShow(ctx context.Context, actor shared.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return c.finish(ctx, actor, bookingID, (*booking.Booking).MarkNoShow)
}

// finish applies an administrative terminal transition (completed, no_show).
func (c *bookingCommandsImpl) finish(
	ctx context.Context,
	actor shared.Actor,
	bookingID uuid.UUID,
	transition func(*booking.Booking) error,
) (*queries.BookingView, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookings := tx.Bookings(actor.CommunityID)

		b, err := bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := transition(b); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := bookings.UpdateStatus(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, actor.CommunityID, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func markFactoryErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidInterval):
		return errs.Mark(err, ErrInvalidInterval)
	case errors.Is(err, booking.ErrSlotNotActive):
		// Indistinguishable from absent to avoid leaking lifecycle state.
		return errs.Mark(err, ErrNotFound)
	default:
		return errs.Mark(err, ErrPolicyViolation)
	}
}
