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

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) queries.BookingQueries {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) GetByID(ctx context.Context, communityID, bookingID uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT b.id, b.slot_id, s.slot_number, s.owner_id, b.renter_id, u.email,
		        lower(b.time_range), upper(b.time_range),
		        b.status, b.price_cents, b.created_at, b.updated_at
		 FROM bookings b
		 JOIN parking_slots s ON s.id = b.slot_id
		 JOIN users u ON u.id = b.renter_id
		 WHERE b.community_id = $1 AND b.id = $2`,
		communityID, bookingID)

	var (
		view      queries.BookingView
		ownerID   pgtype.UUID
		start     pgtype.Timestamptz
		end       pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.SlotID, &view.SlotNumber, &ownerID, &view.RenterID, &view.RenterEmail,
		&start, &end, &view.Status, &view.PriceCents, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.SlotOwnerID = pgconv.UUIDPtrFromPgtype(ownerID)
	view.StartTime = pgconv.TimeFromPgtype(start)
	view.EndTime = pgconv.TimeFromPgtype(end)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func (r *BookingReadStore) ListByRenter(ctx context.Context, communityID, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.slot_id, s.slot_number,
		        lower(b.time_range), upper(b.time_range),
		        b.status, b.price_cents, b.created_at
		 FROM bookings b
		 JOIN parking_slots s ON s.id = b.slot_id
		 WHERE b.community_id = $1 AND b.renter_id = $2
		 ORDER BY b.created_at DESC, b.id DESC`,
		communityID, renterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by renter", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			start     pgtype.Timestamptz
			end       pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.SlotID, &item.SlotNumber, &start, &end, &item.Status, &item.PriceCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.StartTime = pgconv.TimeFromPgtype(start)
		item.EndTime = pgconv.TimeFromPgtype(end)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}

	return result, nil
}
