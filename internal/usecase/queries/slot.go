package queries

import (
	"context"

	"github.com/google/uuid"
)

type SlotQueries interface {
	GetByID(ctx context.Context, communityID, slotID uuid.UUID) (*SlotView, error)
	// ListActive returns the community's active slots ordered by number.
	ListActive(ctx context.Context, communityID uuid.UUID) ([]*SlotView, error)
}
