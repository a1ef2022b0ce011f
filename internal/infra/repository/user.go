package repository

import (
	"context"
	"time"

	"parkshare/internal/domain/user"
	"parkshare/internal/infra"
	"parkshare/internal/infra/db"
	"parkshare/internal/pkg/pgconv"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UserRepository is not tenant-bound: email lookup at login necessarily runs
// before the tenant is known. Tenant scoping applies from the resolved
// principal onwards.
const pgErrCodeForeignKeyViolation = "23503"

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) shared.UserRepository {
	return &UserRepository{db: dbtx}
}

const userColumns = `id, community_id, email, role, is_active, created_at, last_login`

func (r *UserRepository) Create(ctx context.Context, u *user.User, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, community_id, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID(), u.CommunityID(), u.Email().Value(), passwordHash, u.Role().String(), u.IsActive())
	if err != nil {
		if isPgErrCode(err, pgErrCodeUniqueViolation) {
			return infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		if isPgErrCode(err, pgErrCodeForeignKeyViolation) {
			return infra.WrapRepoErr("community does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, string, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`,
		email)

	var (
		id          uuid.UUID
		communityID uuid.UUID
		emailValue  string
		role        string
		isActive    bool
		createdAt   pgtype.Timestamptz
		lastLogin   pgtype.Timestamptz
		hash        string
	)
	err := row.Scan(&id, &communityID, &emailValue, &role, &isActive, &createdAt, &lastLogin, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	u, err := reconstructUser(id, communityID, emailValue, role, isActive, createdAt, lastLogin)
	if err != nil {
		return nil, "", err
	}
	return u, hash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id)

	var (
		userID      uuid.UUID
		communityID uuid.UUID
		emailValue  string
		role        string
		isActive    bool
		createdAt   pgtype.Timestamptz
		lastLogin   pgtype.Timestamptz
	)
	err := row.Scan(&userID, &communityID, &emailValue, &role, &isActive, &createdAt, &lastLogin)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return reconstructUser(userID, communityID, emailValue, role, isActive, createdAt, lastLogin)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $2 WHERE id = $1`,
		userID, pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

func reconstructUser(
	id, communityID uuid.UUID,
	emailValue, role string,
	isActive bool,
	createdAt, lastLogin pgtype.Timestamptz,
) (*user.User, error) {
	email, err := user.NewEmail(emailValue)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user has invalid email", err)
	}

	return user.ReconstructUser(
		id, email, user.Role(role), communityID, isActive,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimePtrFromPgtype(lastLogin),
	), nil
}
