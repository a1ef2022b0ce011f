//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/internal/domain/slot"
	"parkshare/internal/domain/user"
	"parkshare/internal/infra"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"
	"parkshare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// The fakes below stand in for the transactional layer so command semantics
// can be exercised without a database. Overlap and uniqueness outcomes are
// injected through the repository fields.

type fakeSlotRepo struct {
	slot          *slot.Slot
	findErr       error
	findActiveErr error
	blocking      bool
	updated       *slot.Slot
}

func (r *fakeSlotRepo) FindByID(_ context.Context, _ uuid.UUID) (*slot.Slot, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.slot, nil
}

func (r *fakeSlotRepo) FindActiveByID(_ context.Context, _ uuid.UUID) (*slot.Slot, error) {
	if r.findActiveErr != nil {
		return nil, r.findActiveErr
	}
	return r.slot, nil
}

func (r *fakeSlotRepo) Create(_ context.Context, _ *slot.Slot) error {
	return nil
}

func (r *fakeSlotRepo) Update(_ context.Context, s *slot.Slot) error {
	r.updated = s
	return nil
}

func (r *fakeSlotRepo) HasBlockingBookings(_ context.Context, _ uuid.UUID) (bool, error) {
	return r.blocking, nil
}

type fakeBookingRepo struct {
	booking       *booking.Booking
	findErr       error
	overlap       bool
	createErr     error
	created       *booking.Booking
	statusUpdates int
}

func (r *fakeBookingRepo) FindByID(_ context.Context, _ uuid.UUID) (*booking.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(_ context.Context, _ uuid.UUID) (*booking.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	if r.createErr != nil {
		return uuid.Nil, r.createErr
	}
	r.created = b
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, b *booking.Booking) error {
	r.booking = b
	r.statusUpdates++
	return nil
}

func (r *fakeBookingRepo) HasOverlap(_ context.Context, _ uuid.UUID, _ booking.TimeSlot, _ *uuid.UUID) (bool, error) {
	return r.overlap, nil
}

type fakeTx struct {
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	users    *fakeUserRepo
}

func (t *fakeTx) Slots(_ uuid.UUID) shared.SlotRepository       { return t.slots }
func (t *fakeTx) Bookings(_ uuid.UUID) shared.BookingRepository { return t.bookings }
func (t *fakeTx) Users() shared.UserRepository                  { return t.users }

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

type fakeBookingQueries struct {
	view *queries.BookingView
	err  error
}

func (q *fakeBookingQueries) GetByID(_ context.Context, _, _ uuid.UUID) (*queries.BookingView, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.view, nil
}

func (q *fakeBookingQueries) ListByRenter(_ context.Context, _, _ uuid.UUID) ([]*queries.BookingListItem, error) {
	return nil, nil
}

type BookingCommandsTestSuite struct {
	suite.Suite
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	readside *fakeBookingQueries
	cmds     commands.BookingCommands
	actor    shared.Actor
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.slots = &fakeSlotRepo{}
	s.bookings = &fakeBookingRepo{}
	s.readside = &fakeBookingQueries{view: &queries.BookingView{}}

	uow := &fakeUoW{tx: &fakeTx{slots: s.slots, bookings: s.bookings}}
	factory := booking.NewFactory(
		clock.NewMockClock(builder.BaseTime),
		booking.DefaultPolicy(),
		booking.NewHourlyPriceCalculator(),
	)
	s.cmds = commands.NewBookingCommands(uow, factory, s.readside)

	s.actor = shared.Actor{
		UserID:      uuid.New(),
		CommunityID: uuid.New(),
		Role:        user.RoleMember,
	}
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) sharedSlot(rateCentsHr int64) *slot.Slot {
	sl, err := builder.NewSlotBuilder().
		WithCommunityID(s.actor.CommunityID).
		WithRateCentsPerHour(rateCentsHr).
		Shared().
		BuildDomain()
	s.Require().NoError(err)
	return sl
}

func (s *BookingCommandsTestSuite) createParams(start, end time.Time) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:    uuid.New(),
		StartTime: start,
		EndTime:   end,
		Confirm:   true,
	}
}

func (s *BookingCommandsTestSuite) TestCreate() {
	s.Run("prices a two-hour booking from the hourly rate", func() {
		s.SetupTest()
		s.slots.slot = s.sharedSlot(10000)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		view, err := s.cmds.Create(context.Background(), s.actor, p)

		s.Require().NoError(err)
		s.NotNil(view)
		s.Require().NotNil(s.bookings.created)
		s.Equal(int64(20000), s.bookings.created.Price().Cents())
		s.Equal(booking.StatusConfirmed, s.bookings.created.Status())
		s.Equal(s.actor.UserID, s.bookings.created.RenterID())
	})

	s.Run("confirm false yields a pending booking", func() {
		s.SetupTest()
		s.slots.slot = s.sharedSlot(10000)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		p.Confirm = false
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.Require().NoError(err)
		s.Equal(booking.StatusPending, s.bookings.created.Status())
	})

	s.Run("rejects an inverted interval before touching the transaction", func() {
		s.SetupTest()
		p := s.createParams(builder.BaseTime.Add(3*time.Hour), builder.BaseTime.Add(time.Hour))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrInvalidInterval)
		s.Nil(s.bookings.created)
	})

	s.Run("missing or inactive slot reads as not found", func() {
		s.SetupTest()
		s.slots.findActiveErr = infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrNotFound)
	})

	s.Run("slot owned by someone else is a policy violation", func() {
		s.SetupTest()
		other := uuid.New()
		sl, err := builder.NewSlotBuilder().
			WithCommunityID(s.actor.CommunityID).
			WithOwner(other).
			BuildDomain()
		s.Require().NoError(err)
		s.slots.slot = sl

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		_, err = s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrPolicyViolation)
	})

	s.Run("owner may book their own slot", func() {
		s.SetupTest()
		sl, err := builder.NewSlotBuilder().
			WithCommunityID(s.actor.CommunityID).
			WithOwner(s.actor.UserID).
			BuildDomain()
		s.Require().NoError(err)
		s.slots.slot = sl

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		_, err = s.cmds.Create(context.Background(), s.actor, p)

		s.NoError(err)
		s.NotNil(s.bookings.created)
	})

	s.Run("too short a booking violates policy", func() {
		s.SetupTest()
		s.slots.slot = s.sharedSlot(10000)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(90*time.Minute))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrPolicyViolation)
	})

	s.Run("policy bounds are checked before the slot lookup", func() {
		s.SetupTest()
		s.slots.findActiveErr = infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(90*time.Minute))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrPolicyViolation)
		s.NotErrorIs(err, commands.ErrNotFound)
	})

	s.Run("overlap pre-check reports a slot conflict", func() {
		s.SetupTest()
		s.slots.slot = s.sharedSlot(10000)
		s.bookings.overlap = true

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrSlotConflict)
		s.Nil(s.bookings.created)
	})

	s.Run("losing the insert race reports a slot conflict", func() {
		s.SetupTest()
		s.slots.slot = s.sharedSlot(10000)
		s.bookings.createErr = infra.WrapRepoErr("exclusion constraint", nil, infra.KindExclusionViolated)

		p := s.createParams(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		_, err := s.cmds.Create(context.Background(), s.actor, p)

		s.ErrorIs(err, commands.ErrSlotConflict)
	})
}

func (s *BookingCommandsTestSuite) confirmedBooking(sl *slot.Slot, renterID uuid.UUID) *booking.Booking {
	b, err := builder.NewBookingBuilder().
		WithSlot(sl).
		WithRenterID(renterID).
		BuildDomain()
	s.Require().NoError(err)
	return b
}

func (s *BookingCommandsTestSuite) TestCancel() {
	s.Run("renter cancels their booking", func() {
		s.SetupTest()
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		s.bookings.booking = s.confirmedBooking(sl, s.actor.UserID)

		view, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.Require().NoError(err)
		s.NotNil(view)
		s.Equal(1, s.bookings.statusUpdates)
		s.True(s.bookings.booking.IsCancelled())
	})

	s.Run("slot owner cancels a booking on their slot", func() {
		s.SetupTest()
		sl, err := builder.NewSlotBuilder().
			WithCommunityID(s.actor.CommunityID).
			WithOwner(s.actor.UserID).
			BuildDomain()
		s.Require().NoError(err)
		s.slots.slot = sl

		ts, err := booking.NewTimeSlot(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour))
		s.Require().NoError(err)
		price, err := booking.NewMoney(20000)
		s.Require().NoError(err)
		s.bookings.booking = booking.ReconstructBooking(
			uuid.New(), s.actor.CommunityID, sl.ID(), uuid.New(),
			ts, booking.StatusConfirmed, price,
			builder.BaseTime, builder.BaseTime,
		)

		_, err = s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.NoError(err)
		s.True(s.bookings.booking.IsCancelled())
	})

	s.Run("cancelling twice is a no-op", func() {
		s.SetupTest()
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		b := s.confirmedBooking(sl, s.actor.UserID)
		s.Require().NoError(b.Cancel())
		s.bookings.booking = b

		_, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.NoError(err)
		s.Equal(0, s.bookings.statusUpdates)
	})

	s.Run("an unrelated member may not cancel", func() {
		s.SetupTest()
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		s.bookings.booking = s.confirmedBooking(sl, uuid.New())

		_, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.ErrorIs(err, commands.ErrForbidden)
	})

	s.Run("an admin may cancel any booking", func() {
		s.SetupTest()
		s.actor.Role = user.RoleAdmin
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		s.bookings.booking = s.confirmedBooking(sl, uuid.New())

		_, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.NoError(err)
		s.True(s.bookings.booking.IsCancelled())
	})

	s.Run("a completed booking refuses cancellation", func() {
		s.SetupTest()
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		b := s.confirmedBooking(sl, s.actor.UserID)
		s.Require().NoError(b.MarkCompleted())
		s.bookings.booking = b

		_, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.ErrorIs(err, commands.ErrPolicyViolation)
	})

	s.Run("unknown booking reads as not found", func() {
		s.SetupTest()
		s.bookings.findErr = infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)

		_, err := s.cmds.Cancel(context.Background(), s.actor, uuid.New())

		s.ErrorIs(err, commands.ErrNotFound)
	})
}

func (s *BookingCommandsTestSuite) TestTerminalTransitions() {
	s.Run("a member may not complete a booking", func() {
		s.SetupTest()

		_, err := s.cmds.MarkCompleted(context.Background(), s.actor, uuid.New())

		s.ErrorIs(err, commands.ErrForbidden)
		s.Equal(0, s.bookings.statusUpdates)
	})

	s.Run("an admin completes a confirmed booking", func() {
		s.SetupTest()
		s.actor.Role = user.RoleAdmin
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		s.bookings.booking = s.confirmedBooking(sl, uuid.New())

		_, err := s.cmds.MarkCompleted(context.Background(), s.actor, uuid.New())

		s.Require().NoError(err)
		s.Equal(booking.StatusCompleted, s.bookings.booking.Status())
	})

	s.Run("an admin records a no-show", func() {
		s.SetupTest()
		s.actor.Role = user.RoleAdmin
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		s.bookings.booking = s.confirmedBooking(sl, uuid.New())

		_, err := s.cmds.MarkNoShow(context.Background(), s.actor, uuid.New())

		s.Require().NoError(err)
		s.Equal(booking.StatusNoShow, s.bookings.booking.Status())
	})

	s.Run("a pending booking cannot be marked no-show", func() {
		s.SetupTest()
		s.actor.Role = user.RoleAdmin
		sl := s.sharedSlot(10000)
		s.slots.slot = sl
		b, err := builder.NewBookingBuilder().
			WithSlot(sl).
			WithRenterID(uuid.New()).
			WithConfirm(false).
			BuildDomain()
		s.Require().NoError(err)
		s.bookings.booking = b

		_, err = s.cmds.MarkNoShow(context.Background(), s.actor, uuid.New())

		s.ErrorIs(err, commands.ErrInvalidTransition)
	})
}
