//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"parkshare/internal/domain/booking"
	"parkshare/internal/domain/user"
	"parkshare/internal/infra/readstore"
	"parkshare/internal/infra/uow"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

// Exercises the bookings_no_overlap exclusion constraint against a real
// PostgreSQL: the unit suites only verify how constraint violations are
// mapped, not that the database actually refuses a double-booking.
type BookingConflictTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	cmds commands.BookingCommands

	communityID uuid.UUID
	slotID      uuid.UUID
	renterA     shared.Actor
	renterB     shared.Actor
}

func TestBookingConflictSuite(t *testing.T) {
	suite.Run(t, new(BookingConflictTestSuite))
}

func (s *BookingConflictTestSuite) SetupSuite() {
	s.pool = SetupPool(s.T())

	factory := booking.NewFactory(
		clock.NewRealClock(),
		booking.DefaultPolicy(),
		booking.NewHourlyPriceCalculator(),
	)
	s.cmds = commands.NewBookingCommands(
		uow.NewPostgresUoW(s.pool),
		factory,
		readstore.NewBookingReadStore(s.pool),
	)
}

func (s *BookingConflictTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, `TRUNCATE bookings, parking_slots, users, communities CASCADE`)
	s.Require().NoError(err)

	s.communityID = uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO communities (id, name) VALUES ($1, $2)`,
		s.communityID, "maple-court-"+uuid.NewString())
	s.Require().NoError(err)

	s.renterA = s.seedMember("renter-a")
	s.renterB = s.seedMember("renter-b")

	s.slotID = uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO parking_slots (id, community_id, slot_number, slot_type, rate_cents_hr, owner_id, status)
		 VALUES ($1, $2, 'A-001', 'covered', 10000, NULL, 'active')`,
		s.slotID, s.communityID)
	s.Require().NoError(err)
}

func (s *BookingConflictTestSuite) seedMember(prefix string) shared.Actor {
	userID := uuid.New()
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO users (id, community_id, email, password_hash, role)
		 VALUES ($1, $2, $3, 'x', 'member')`,
		userID, s.communityID, fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()))
	s.Require().NoError(err)

	return shared.Actor{
		UserID:      userID,
		CommunityID: s.communityID,
		Role:        user.RoleMember,
	}
}

func (s *BookingConflictTestSuite) blockingCount() int {
	var count int
	err := s.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM bookings WHERE slot_id = $1 AND status <> 'cancelled'`,
		s.slotID).Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *BookingConflictTestSuite) params(start, end time.Time) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:    s.slotID,
		StartTime: start,
		EndTime:   end,
		Confirm:   true,
	}
}

// Two renters race for overlapping intervals on the same slot. Both
// transactions may pass the in-transaction pre-check; the exclusion
// constraint decides, and exactly one booking must survive.
func (s *BookingConflictTestSuite) TestConcurrentOverlappingBookings() {
	base := time.Now().Add(2 * time.Hour).Truncate(time.Minute)

	attempts := []struct {
		actor  shared.Actor
		params commands.CreateBookingParams
	}{
		{s.renterA, s.params(base, base.Add(2*time.Hour))},
		{s.renterB, s.params(base.Add(time.Hour), base.Add(3*time.Hour))},
	}

	var wg sync.WaitGroup
	results := make([]error, len(attempts))
	barrier := make(chan struct{})

	for i, attempt := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier
			_, err := s.cmds.Create(context.Background(), attempt.actor, attempt.params)
			results[i] = err
		}()
	}
	close(barrier)
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		s.ErrorIs(err, commands.ErrSlotConflict)
	}
	s.Equal(1, winners, "exactly one of the racing bookings must commit")
	s.Equal(1, s.blockingCount())
}

func (s *BookingConflictTestSuite) TestSequentialOverlapIsRejected() {
	base := time.Now().Add(2 * time.Hour).Truncate(time.Minute)

	_, err := s.cmds.Create(context.Background(), s.renterA, s.params(base, base.Add(2*time.Hour)))
	s.Require().NoError(err)

	_, err = s.cmds.Create(context.Background(), s.renterB, s.params(base.Add(time.Hour), base.Add(3*time.Hour)))
	s.ErrorIs(err, commands.ErrSlotConflict)
	s.Equal(1, s.blockingCount())
}

// Half-open intervals: a booking ending exactly when the next one starts is
// not a conflict.
func (s *BookingConflictTestSuite) TestAdjacentIntervalsDoNotConflict() {
	base := time.Now().Add(2 * time.Hour).Truncate(time.Minute)

	_, err := s.cmds.Create(context.Background(), s.renterA, s.params(base, base.Add(2*time.Hour)))
	s.Require().NoError(err)

	_, err = s.cmds.Create(context.Background(), s.renterB, s.params(base.Add(2*time.Hour), base.Add(4*time.Hour)))
	s.NoError(err)
	s.Equal(2, s.blockingCount())
}

// The constraint excludes cancelled rows, so cancelling frees the interval.
func (s *BookingConflictTestSuite) TestCancelledBookingDoesNotBlock() {
	base := time.Now().Add(2 * time.Hour).Truncate(time.Minute)

	first, err := s.cmds.Create(context.Background(), s.renterA, s.params(base, base.Add(2*time.Hour)))
	s.Require().NoError(err)

	_, err = s.cmds.Cancel(context.Background(), s.renterA, first.ID)
	s.Require().NoError(err)

	second, err := s.cmds.Create(context.Background(), s.renterB, s.params(base, base.Add(2*time.Hour)))
	s.Require().NoError(err)
	s.Equal("confirmed", second.Status)
	s.Equal(int64(20000), second.PriceCents)
	s.Equal(1, s.blockingCount())
}
