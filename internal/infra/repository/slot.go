package repository

import (
	"context"
	"errors"

	"parkshare/internal/domain/slot"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgErrCodeUniqueViolation = "23505"

// SlotRepository is bound to one community at construction; every statement
// filters on community_id before anything else. There is no constructor
// without a tenant.
type SlotRepository struct {
	db          db.DBTX
	communityID uuid.UUID
}

func NewSlotRepository(dbtx db.DBTX, communityID uuid.UUID) shared.SlotRepository {
	return &SlotRepository{
		db:          dbtx,
		communityID: communityID,
	}
}

const slotColumns = `id, community_id, slot_number, slot_type, rate_cents_hr, owner_id, status, created_at, updated_at`

func (r *SlotRepository) FindByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE community_id = $1 AND id = $2`,
		r.communityID, slotID)

	return r.scanSlot(row)
}

func (r *SlotRepository) FindActiveByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE community_id = $1 AND id = $2 AND status = 'active'`,
		r.communityID, slotID)

	return r.scanSlot(row)
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO parking_slots (id, community_id, slot_number, slot_type, rate_cents_hr, owner_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID(), r.communityID, s.Number(), s.SlotType().String(), s.RateCentsPerHour(),
		pgconv.UUIDPtrToPgtype(s.OwnerID()), s.Status().String())
	if err != nil {
		if isPgErrCode(err, pgErrCodeUniqueViolation) {
			return infra.WrapRepoErr("duplicate slot number in community", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create slot", err)
	}
	return nil
}

func (r *SlotRepository) Update(ctx context.Context, s *slot.Slot) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE parking_slots
		 SET slot_number = $3, slot_type = $4, rate_cents_hr = $5, status = $6, updated_at = now()
		 WHERE community_id = $1 AND id = $2`,
		r.communityID, s.ID(), s.Number(), s.SlotType().String(), s.RateCentsPerHour(), s.Status().String())
	if err != nil {
		if isPgErrCode(err, pgErrCodeUniqueViolation) {
			return infra.WrapRepoErr("duplicate slot number in community", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SlotRepository) HasBlockingBookings(ctx context.Context, slotID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE community_id = $1 AND slot_id = $2 AND status <> 'cancelled'
		 )`,
		r.communityID, slotID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check blocking bookings", err)
	}
	return exists, nil
}

func (r *SlotRepository) scanSlot(row pgx.Row) (*slot.Slot, error) {
	var (
		id          uuid.UUID
		communityID uuid.UUID
		number      string
		slotType    string
		rateCents   int64
		ownerID     pgtype.UUID
		status      string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&id, &communityID, &number, &slotType, &rateCents, &ownerID, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}

	return slot.ReconstructSlot(
		id, communityID, number,
		slot.Type(slotType), rateCents,
		pgconv.UUIDPtrFromPgtype(ownerID),
		slot.Status(status),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
