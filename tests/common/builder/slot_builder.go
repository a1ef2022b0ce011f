//go:build unit

package builder

import (
	"time"

	"parkshare/internal/domain/slot"
	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	communityID uuid.UUID
	number      string
	slotType    slot.Type
	rateCentsHr int64
	ownerID     *uuid.UUID
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		communityID: uuid.New(),
		number:      "A-001",
		slotType:    slot.TypeCovered,
		rateCentsHr: 10000,
	}
}

func (b *SlotBuilder) WithCommunityID(id uuid.UUID) *SlotBuilder {
	b.communityID = id
	return b
}

func (b *SlotBuilder) WithNumber(number string) *SlotBuilder {
	b.number = number
	return b
}

func (b *SlotBuilder) WithType(t slot.Type) *SlotBuilder {
	b.slotType = t
	return b
}

func (b *SlotBuilder) WithRateCentsPerHour(rate int64) *SlotBuilder {
	b.rateCentsHr = rate
	return b
}

func (b *SlotBuilder) WithOwner(ownerID uuid.UUID) *SlotBuilder {
	b.ownerID = &ownerID
	return b
}

func (b *SlotBuilder) Shared() *SlotBuilder {
	b.ownerID = nil
	return b
}

func (b *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	return slot.NewSlot(b.communityID, b.number, b.slotType, b.rateCentsHr, b.ownerID)
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &queries.SlotView{
		ID:        uuid.New(),
		Number:    b.number,
		SlotType:  b.slotType.String(),
		RateCents: b.rateCentsHr,
		OwnerID:   b.ownerID,
		Status:    slot.StatusActive.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
