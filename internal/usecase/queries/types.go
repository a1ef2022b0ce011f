package queries

import (
	"time"

	"github.com/google/uuid"
)

type BookingView struct {
	ID          uuid.UUID
	SlotID      uuid.UUID
	SlotNumber  string
	SlotOwnerID *uuid.UUID
	RenterID    uuid.UUID
	RenterEmail string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	PriceCents  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BookingListItem struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	SlotNumber string
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	PriceCents int64
	CreatedAt  time.Time
}

type SlotView struct {
	ID        uuid.UUID
	Number    string
	SlotType  string
	RateCents int64
	OwnerID   *uuid.UUID
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
