package repomanager

import (
	"context"
	"database/sql"

	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/repositories/committees"
	"github.com/corrsys/parolecore/internal/server/repositories/inmates"
	"github.com/corrsys/parolecore/internal/server/repositories/officers"
	"github.com/corrsys/parolecore/internal/server/repositories/requests"
	"github.com/corrsys/parolecore/internal/server/repositories/signatures"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code against the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Inmates(db dbx.DBTX) inmates.Repository
	Officers(db dbx.DBTX) officers.Repository
	Committees(db dbx.DBTX) committees.Repository
	Requests(db dbx.DBTX) requests.Repository
	Signatures(db dbx.DBTX) signatures.Repository
}
