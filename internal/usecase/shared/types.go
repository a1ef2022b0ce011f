package shared

import (
	"parkshare/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the resolved principal: user, tenant and role, produced by the
// auth middleware. Every command takes it explicitly; tenant identity is
// never read from request bodies.
type Actor struct {
	UserID      uuid.UUID
	CommunityID uuid.UUID
	Role        user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}
