package inmates

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

func (r *PostgresRepository) GetSentence(ctx context.Context, inmateID string) (*models.SentenceRecord, error) {
	query :=
		`SELECT id, sentence_start, sentence_end, conduct_points FROM inmates
		 WHERE id = $1
		 `

	rec := &models.SentenceRecord{}
	err := r.db.QueryRowContext(ctx, query, inmateID).
		Scan(&rec.InmateID, &rec.SentenceStart, &rec.SentenceEnd, &rec.ConductPoints)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}
