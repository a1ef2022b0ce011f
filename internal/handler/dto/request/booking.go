package request

import (
	"time"

	"parkshare/internal/pkg/patch"

	"github.com/google/uuid"
)

// CreateBookingRequest intentionally has no price field; the total is always
// computed server-side from the slot rate. Unknown body fields are rejected
// globally via the strict JSON decoder.
type CreateBookingRequest struct {
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Confirm   *bool     `json:"confirm,omitempty"`
}

// ConfirmOrDefault defaults to immediate confirmation when the flag is
// omitted.
func (r CreateBookingRequest) ConfirmOrDefault() bool {
	return patch.Coalesce(r.Confirm, true)
}
