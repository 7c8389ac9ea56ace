package committees

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

func (r *PostgresRepository) GetByStatus(ctx context.Context, status string) (*models.Committee, error) {
	query :=
		`SELECT version, status, created_at FROM committees
		 WHERE status = $1
		 `

	c := &models.Committee{}
	err := r.db.QueryRowContext(ctx, query, status).Scan(&c.Version, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadMembers(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) GetByVersion(ctx context.Context, version int64) (*models.Committee, error) {
	query :=
		`SELECT version, status, created_at FROM committees
		 WHERE version = $1
		 `

	c := &models.Committee{}
	err := r.db.QueryRowContext(ctx, query, version).Scan(&c.Version, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadMembers(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) NextVersion(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(version), 0) + 1 FROM committees`

	var version int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, c *models.Committee) error {
	query :=
		`INSERT INTO committees (version, status)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, c.Version, c.Status); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for i, officerID := range c.MemberIDs {
		if err := r.AddMember(ctx, c.Version, i+1, officerID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, version int64, position int, officerID string) error {
	query :=
		`INSERT INTO committee_members (committee_version, position, officer_id)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, version, position, officerID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, version int64, from, to string) (bool, error) {
	query :=
		`UPDATE committees SET status = $3
		 WHERE version = $1 AND status = $2
		 `

	n, err := dbx.ExecRows(ctx, r.db, query, version, from, to)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) loadMembers(ctx context.Context, c *models.Committee) error {
	query :=
		`SELECT officer_id FROM committee_members
		 WHERE committee_version = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, c.Version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		c.MemberIDs = append(c.MemberIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
