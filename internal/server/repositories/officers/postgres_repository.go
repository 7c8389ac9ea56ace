package officers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corrsys/parolecore/internal/common"
	"github.com/corrsys/parolecore/internal/dbx"
	"github.com/corrsys/parolecore/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, officerID string) (*models.Officer, error) {
	query :=
		`SELECT id, full_name, role, active FROM officers
		 WHERE id = $1
		 `

	o := &models.Officer{}
	err := r.db.QueryRowContext(ctx, query, officerID).
		Scan(&o.ID, &o.FullName, &o.Role, &o.Active)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}
