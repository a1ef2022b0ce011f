package response

import (
	"time"

	"parkshare/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        uuid.UUID  `json:"id"`
	Number    string     `json:"number"`
	SlotType  string     `json:"slotType"`
	RateCents int64      `json:"rateCentsHr"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func FromSlotView(view *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:        view.ID,
		Number:    view.Number,
		SlotType:  view.SlotType,
		RateCents: view.RateCents,
		OwnerID:   view.OwnerID,
		Status:    view.Status,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
}
