package queries

import (
	"context"

	"github.com/google/uuid"
)

// BookingQueries is the tenant-scoped read side for bookings. Every method
// takes the caller's community; a booking in another community reads as
// not found.
type BookingQueries interface {
	GetByID(ctx context.Context, communityID, bookingID uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, communityID, renterID uuid.UUID) ([]*BookingListItem, error)
}
