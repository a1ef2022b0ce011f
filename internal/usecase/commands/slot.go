package commands

import (
	"context"

	"parkshare/internal/domain/slot"
	"parkshare/internal/infra"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type CreateSlotParams struct {
	Number    string
	SlotType  string
	RateCents int64
	// Shared registers the slot into the community pool instead of
	// assigning the creator as owner. Admin only.
	Shared bool
}

type UpdateSlotParams struct {
	Number    *string
	SlotType  *string
	RateCents *int64
}

type SlotCommands interface {
	Create(ctx context.Context, actor shared.Actor, p CreateSlotParams) (*queries.SlotView, error)
	Update(ctx context.Context, actor shared.Actor, slotID uuid.UUID, p UpdateSlotParams) (*queries.SlotView, error)
	SoftDelete(ctx context.Context, actor shared.Actor, slotID uuid.UUID) error
}

type slotCommandsImpl struct {
	uow         shared.UnitOfWork
	slotQueries queries.SlotQueries
}

func NewSlotCommands(uow shared.UnitOfWork, slotQueries queries.SlotQueries) SlotCommands {
	return &slotCommandsImpl{
		uow:         uow,
		slotQueries: slotQueries,
	}
}

func (c *slotCommandsImpl) Create(ctx context.Context, actor shared.Actor, p CreateSlotParams) (*queries.SlotView, error) {
	if p.Shared && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	ownerID := &actor.UserID
	if p.Shared {
		ownerID = nil
	}

	s, err := slot.NewSlot(actor.CommunityID, p.Number, slot.Type(p.SlotType), p.RateCents, ownerID)
	if err != nil {
		return nil, errs.Mark(err, ErrPolicyViolation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Slots(actor.CommunityID).Create(ctx, s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrConflict)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.slotQueries.GetByID(ctx, actor.CommunityID, s.ID())
}

func (c *slotCommandsImpl) Update(ctx context.Context, actor shared.Actor, slotID uuid.UUID, p UpdateSlotParams) (*queries.SlotView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		slots := tx.Slots(actor.CommunityID)

		s, err := slots.FindByID(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !s.CanBeManagedBy(actor.UserID, actor.IsAdmin()) {
			return ErrForbidden
		}

		patch := slot.Patch{
			Number:      p.Number,
			RateCentsHr: p.RateCents,
		}
		if p.SlotType != nil {
			st := slot.Type(*p.SlotType)
			patch.SlotType = &st
		}

		if err := s.Apply(patch); err != nil {
			if errors.Is(err, slot.ErrSlotDeleted) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrPolicyViolation)
		}

		if err := slots.Update(ctx, s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrConflict)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.slotQueries.GetByID(ctx, actor.CommunityID, slotID)
}

// SoftDelete flips the slot to deleted. A slot carrying any non-cancelled
// booking cannot be deleted.
func (c *slotCommandsImpl) SoftDelete(ctx context.Context, actor shared.Actor, slotID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		slots := tx.Slots(actor.CommunityID)

		s, err := slots.FindByID(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !s.CanBeManagedBy(actor.UserID, actor.IsAdmin()) {
			return ErrForbidden
		}

		blocked, err := slots.HasBlockingBookings(ctx, slotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if blocked {
			return ErrConflict
		}

		if err := s.MarkDeleted(); err != nil {
			return errs.Mark(err, ErrNotFound)
		}

		if err := slots.Update(ctx, s); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
