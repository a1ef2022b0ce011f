package request

type CreateSlotRequest struct {
	Number    string `json:"number" binding:"required,max=16"`
	SlotType  string `json:"slot_type" binding:"required,oneof=covered uncovered visitor"`
	RateCents int64  `json:"rate_cents_hr" binding:"required,gt=0"`
	// Shared registers the slot into the community pool; admin only.
	Shared bool `json:"shared"`
}

type UpdateSlotRequest struct {
	Number    *string `json:"number,omitempty" binding:"omitempty,max=16"`
	SlotType  *string `json:"slot_type,omitempty" binding:"omitempty,oneof=covered uncovered visitor"`
	RateCents *int64  `json:"rate_cents_hr,omitempty" binding:"omitempty,gt=0"`
}
