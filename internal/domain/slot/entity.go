package slot

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidNumber  = errors.New("invalid slot number")
	ErrInvalidType    = errors.New("invalid slot type")
	ErrInvalidRate    = errors.New("hourly rate must be positive")
	ErrSlotDeleted    = errors.New("slot is deleted")
	ErrNotManageable  = errors.New("caller may not manage this slot")
	ErrImmutableOwner = errors.New("slot community cannot change")
)

const MaxNumberLength = 16

// Slot is a bookable parking space inside one community. An owner of nil
// means the slot belongs to the shared pool and any member may book it;
// otherwise only the owner may.
type Slot struct {
	id          uuid.UUID
	communityID uuid.UUID
	number      string
	slotType    Type
	rateCentsHr int64
	ownerID     *uuid.UUID
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSlot(communityID uuid.UUID, number string, slotType Type, rateCentsHr int64, ownerID *uuid.UUID) (*Slot, error) {
	number = strings.TrimSpace(number)
	if number == "" || len(number) > MaxNumberLength {
		return nil, ErrInvalidNumber
	}
	if !slotType.IsValid() {
		return nil, ErrInvalidType
	}
	if rateCentsHr <= 0 {
		return nil, ErrInvalidRate
	}

	return &Slot{
		id:          uuid.New(),
		communityID: communityID,
		number:      number,
		slotType:    slotType,
		rateCentsHr: rateCentsHr,
		ownerID:     ownerID,
		status:      StatusActive,
	}, nil
}

func ReconstructSlot(
	id, communityID uuid.UUID,
	number string,
	slotType Type,
	rateCentsHr int64,
	ownerID *uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:          id,
		communityID: communityID,
		number:      number,
		slotType:    slotType,
		rateCentsHr: rateCentsHr,
		ownerID:     ownerID,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Slot) ID() uuid.UUID           { return s.id }
func (s *Slot) CommunityID() uuid.UUID  { return s.communityID }
func (s *Slot) Number() string          { return s.number }
func (s *Slot) SlotType() Type          { return s.slotType }
func (s *Slot) RateCentsPerHour() int64 { return s.rateCentsHr }
func (s *Slot) OwnerID() *uuid.UUID     { return s.ownerID }
func (s *Slot) Status() Status          { return s.status }
func (s *Slot) CreatedAt() time.Time    { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time    { return s.updatedAt }

func (s *Slot) IsActive() bool {
	return s.status == StatusActive
}

// IsShared reports whether the slot belongs to the community pool.
func (s *Slot) IsShared() bool {
	return s.ownerID == nil
}

// CanBeManagedBy authorizes slot mutations: the owner or a community admin.
// A shared-pool slot is managed by admins only.
func (s *Slot) CanBeManagedBy(callerID uuid.UUID, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return s.ownerID != nil && *s.ownerID == callerID
}

// CanBeBookedBy applies the owned-slot rule: a slot with an owner may be
// booked only by that owner; a shared slot by anyone in the community.
func (s *Slot) CanBeBookedBy(renterID uuid.UUID) bool {
	return s.ownerID == nil || *s.ownerID == renterID
}

// Patch is a partial update; nil fields are left untouched. The community
// and the owner are deliberately not patchable.
type Patch struct {
	Number      *string
	SlotType    *Type
	RateCentsHr *int64
}

func (s *Slot) Apply(p Patch) error {
	if s.status != StatusActive {
		return ErrSlotDeleted
	}
	if p.Number != nil {
		number := strings.TrimSpace(*p.Number)
		if number == "" || len(number) > MaxNumberLength {
			return ErrInvalidNumber
		}
		s.number = number
	}
	if p.SlotType != nil {
		if !p.SlotType.IsValid() {
			return ErrInvalidType
		}
		s.slotType = *p.SlotType
	}
	if p.RateCentsHr != nil {
		if *p.RateCentsHr <= 0 {
			return ErrInvalidRate
		}
		s.rateCentsHr = *p.RateCentsHr
	}
	return nil
}

func (s *Slot) MarkDeleted() error {
	if s.status != StatusActive {
		return ErrSlotDeleted
	}
	s.status = StatusDeleted
	return nil
}
