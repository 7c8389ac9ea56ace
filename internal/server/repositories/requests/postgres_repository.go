package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, req *models.ParoleRequest) error {
	query :=
		`INSERT INTO parole_requests (id, inmate_id, committee_version, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		req.ID, req.InmateID, req.CommitteeVersion, req.Status).Scan(&req.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ParoleRequest, error) {
	query :=
		`SELECT id, inmate_id, committee_version, status, reason, decision_date, created_at
		 FROM parole_requests
		 WHERE id = $1
		 `

	req := &models.ParoleRequest{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.InmateID, &req.CommitteeVersion, &req.Status, &req.Reason, &req.DecisionDate, &req.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return req, nil
}

func (r *PostgresRepository) ListByInmate(ctx context.Context, inmateID string) ([]*models.ParoleRequest, error) {
	query :=
		`SELECT id, inmate_id, committee_version, status, reason, decision_date, created_at
		 FROM parole_requests
		 WHERE inmate_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, inmateID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ParoleRequest
	for rows.Next() {
		req := &models.ParoleRequest{}
		if err := rows.Scan(&req.ID, &req.InmateID, &req.CommitteeVersion, &req.Status,
			&req.Reason, &req.DecisionDate, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Decide(ctx context.Context, id, status, reason string, decisionDate time.Time) (bool, error) {
	query :=
		`UPDATE parole_requests
		 SET status = $2, reason = $3, decision_date = $4
		 WHERE id = $1 AND status = 'pending'
		 `

	n, err := dbx.ExecRows(ctx, r.db, query, id, status, reason, decisionDate)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
