package readstore

import (
	"context"

	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) queries.SlotQueries {
	return &SlotReadStore{db: dbtx}
}

func (r *SlotReadStore) GetByID(ctx context.Context, communityID, slotID uuid.UUID) (*queries.SlotView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, slot_number, slot_type, rate_cents_hr, owner_id, status, created_at, updated_at
		 FROM parking_slots
		 WHERE community_id = $1 AND id = $2`,
		communityID, slotID)

	var (
		view      queries.SlotView
		ownerID   pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.Number, &view.SlotType, &view.RateCents, &ownerID, &view.Status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}

	view.OwnerID = pgconv.UUIDPtrFromPgtype(ownerID)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func (r *SlotReadStore) ListActive(ctx context.Context, communityID uuid.UUID) ([]*queries.SlotView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, slot_number, slot_type, rate_cents_hr, owner_id, status, created_at, updated_at
		 FROM parking_slots
		 WHERE community_id = $1 AND status = 'active'
		 ORDER BY slot_number`,
		communityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	var result []*queries.SlotView
	for rows.Next() {
		var (
			view      queries.SlotView
			ownerID   pgtype.UUID
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.Number, &view.SlotType, &view.RateCents, &ownerID, &view.Status, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		view.OwnerID = pgconv.UUIDPtrFromPgtype(ownerID)
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slot rows", err)
	}

	return result, nil
}
