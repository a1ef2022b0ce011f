package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a member of exactly one community. The community assignment is
// immutable after creation; there is no operation to move a user between
// communities.
type User struct {
	id          uuid.UUID
	email       Email
	role        Role
	communityID uuid.UUID
	isActive    bool
	createdAt   time.Time
	lastLogin   *time.Time
}

func NewUser(email Email, role Role, communityID uuid.UUID) *User {
	return &User{
		id:          uuid.New(),
		email:       email,
		role:        role,
		communityID: communityID,
		isActive:    true,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	role Role,
	communityID uuid.UUID,
	isActive bool,
	createdAt time.Time,
	lastLogin *time.Time,
) *User {
	return &User{
		id:          id,
		email:       email,
		role:        role,
		communityID: communityID,
		isActive:    isActive,
		createdAt:   createdAt,
		lastLogin:   lastLogin,
	}
}

func (u *User) ID() uuid.UUID          { return u.id }
func (u *User) Email() Email           { return u.email }
func (u *User) Role() Role             { return u.role }
func (u *User) CommunityID() uuid.UUID { return u.communityID }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) LastLogin() *time.Time  { return u.lastLogin }

func (u *User) IsAdmin() bool {
	return u.role.IsAdmin()
}
