// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/migrations"
	"github.com/corrsys/parolecore/internal/server/repositories/committees"
	"github.com/corrsys/parolecore/internal/server/repositories/inmates"
	"github.com/corrsys/parolecore/internal/server/repositories/officers"
	"github.com/corrsys/parolecore/internal/server/repositories/requests"
	"github.com/corrsys/parolecore/internal/server/repositories/signatures"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Inmates(db dbx.DBTX) inmates.Repository {
	return inmates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Officers(db dbx.DBTX) officers.Repository {
	return officers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Committees(db dbx.DBTX) committees.Repository {
	return committees.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Requests(db dbx.DBTX) requests.Repository {
	return requests.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Signatures(db dbx.DBTX) signatures.Repository {
	return signatures.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
