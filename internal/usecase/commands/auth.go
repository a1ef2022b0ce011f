package commands

import (
	"context"

	"parkshare/internal/domain/user"
	"parkshare/internal/infra"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/jwt"
	"parkshare/internal/pkg/password"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

type SignUpParams struct {
	Email       string
	Password    string
	CommunityID uuid.UUID
}

type LoginResult struct {
	Token string
	User  AuthenticatedUser
}

type AuthenticatedUser struct {
	ID          uuid.UUID
	Email       string
	Role        string
	CommunityID uuid.UUID
}

type AuthCommands interface {
	SignUp(ctx context.Context, p SignUpParams) (*AuthenticatedUser, error)
	// Login verifies credentials and issues a token. Unknown email and
	// wrong password are indistinguishable in the returned error.
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	CurrentUser(ctx context.Context, actor shared.Actor) (*AuthenticatedUser, error)
}

type authCommands struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommands{
		uow:        uow,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (c *authCommands) SignUp(ctx context.Context, p SignUpParams) (*AuthenticatedUser, error) {
	email, err := user.NewEmail(p.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrPolicyViolation)
	}

	hash, err := password.HashPassword(p.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrPolicyViolation)
	}

	u := user.NewUser(email, user.RoleMember, p.CommunityID)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, u, hash); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrEmailTaken)
			}
			// A nonexistent community is bad client input, not an outage.
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.Mark(err, ErrPolicyViolation)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toAuthenticatedUser(u), nil
}

func (c *authCommands) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	var result *LoginResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		users := tx.Users()

		u, hash, err := users.FindByEmail(ctx, email)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrInvalidCredentials)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !u.IsActive() {
			return ErrInvalidCredentials
		}

		if err := password.ComparePassword(hash, plainPassword); err != nil {
			return errs.Mark(err, ErrInvalidCredentials)
		}

		token, err := c.jwtService.GenerateToken(u.ID(), u.CommunityID(), u.Role())
		if err != nil {
			return errs.Wrap(err, "failed to issue token")
		}

		if err := users.UpdateLastLogin(ctx, u.ID(), c.clock.Now()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &LoginResult{
			Token: token,
			User:  *toAuthenticatedUser(u),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *authCommands) CurrentUser(ctx context.Context, actor shared.Actor) (*AuthenticatedUser, error) {
	var result *AuthenticatedUser

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByID(ctx, actor.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result = toAuthenticatedUser(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func toAuthenticatedUser(u *user.User) *AuthenticatedUser {
	return &AuthenticatedUser{
		ID:          u.ID(),
		Email:       u.Email().Value(),
		Role:        u.Role().String(),
		CommunityID: u.CommunityID(),
	}
}
