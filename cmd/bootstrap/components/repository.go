package components

import (
	"parkshare/internal/infra/db"
	"parkshare/internal/infra/readstore"
	"parkshare/internal/infra/uow"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// RepositoryModule wires the write side (UnitOfWork, which hands out
// community-bound repositories per transaction) and the read side
// (tenant-scoped readstores over the pool).
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		readstore.NewBookingReadStore,
		readstore.NewSlotReadStore,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
