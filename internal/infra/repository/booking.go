package repository

import (
	"context"

	"parkshare/internal/domain/booking"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgErrCodeExclusionViolation = "23P01"

// BookingRepository is community-bound like SlotRepository. The insert path
// relies on the bookings_no_overlap exclusion constraint: under concurrent
// attempts on the same slot the database, not this code, is what guarantees
// the invariant.
type BookingRepository struct {
	db          db.DBTX
	communityID uuid.UUID
}

func NewBookingRepository(dbtx db.DBTX, communityID uuid.UUID) shared.BookingRepository {
	return &BookingRepository{
		db:          dbtx,
		communityID: communityID,
	}
}

const bookingColumns = `id, community_id, slot_id, renter_id, time_range, status, price_cents, created_at, updated_at`

func (r *BookingRepository) FindByID(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE community_id = $1 AND id = $2`,
		r.communityID, bookingID)

	return r.scanBooking(row)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE community_id = $1 AND id = $2 FOR UPDATE`,
		r.communityID, bookingID)

	return r.scanBooking(row)
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, community_id, slot_id, renter_id, time_range, status, price_cents)
		 VALUES ($1, $2, $3, $4, tstzrange($5, $6, '[)'), $7, $8)`,
		b.ID(), r.communityID, b.SlotID(), b.RenterID(),
		b.TimeSlot().Start(), b.TimeSlot().End(),
		b.Status().String(), b.Price().Cents())
	if err != nil {
		if isPgErrCode(err, pgErrCodeExclusionViolation) {
			return uuid.Nil, infra.WrapRepoErr("booking interval overlaps existing booking", err, infra.KindExclusionViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return b.ID(), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = now() WHERE community_id = $1 AND id = $2`,
		r.communityID, b.ID(), b.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// HasOverlap answers the conflict pre-check. The query intentionally mirrors
// the exclusion constraint predicate: non-cancelled rows of the slot whose
// range intersects [start, end).
func (r *BookingRepository) HasOverlap(ctx context.Context, slotID uuid.UUID, ts booking.TimeSlot, excludeBookingID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE community_id = $1
		       AND slot_id = $2
		       AND status <> 'cancelled'
		       AND time_range && tstzrange($3, $4, '[)')
		       AND ($5::uuid IS NULL OR id <> $5)
		 )`,
		r.communityID, slotID, ts.Start(), ts.End(), pgconv.UUIDPtrToPgtype(excludeBookingID)).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id          uuid.UUID
		communityID uuid.UUID
		slotID      uuid.UUID
		renterID    uuid.UUID
		timeRange   pgtype.Range[pgtype.Timestamptz]
		status      string
		priceCents  int64
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&id, &communityID, &slotID, &renterID, &timeRange, &status, &priceCents, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	ts, err := booking.NewTimeSlot(timeRange.Lower.Time, timeRange.Upper.Time)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid interval", err)
	}

	price, err := booking.NewMoney(priceCents)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid price", err)
	}

	return booking.ReconstructBooking(
		id, communityID, slotID, renterID,
		ts, booking.Status(status), price,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
