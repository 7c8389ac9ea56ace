package signatures

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

func (r *PostgresRepository) CreateForMembers(ctx context.Context, requestID string, memberIDs []string) error {
	query :=
		`INSERT INTO signatures (request_id, member_id, has_signed)
		 VALUES ($1, $2, FALSE)
		 `

	for _, memberID := range memberIDs {
		if _, err := r.db.ExecContext(ctx, query, requestID, memberID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, requestID, memberID string) (*models.Signature, error) {
	query :=
		`SELECT request_id, member_id, has_signed, signed_at FROM signatures
		 WHERE request_id = $1 AND member_id = $2
		 `

	s := &models.Signature{}
	err := r.db.QueryRowContext(ctx, query, requestID, memberID).
		Scan(&s.RequestID, &s.MemberID, &s.HasSigned, &s.SignedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListByRequest(ctx context.Context, requestID string) ([]*models.Signature, error) {
	query :=
		`SELECT request_id, member_id, has_signed, signed_at FROM signatures
		 WHERE request_id = $1
		 ORDER BY member_id
		 `

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Signature
	for rows.Next() {
		s := &models.Signature{}
		if err := rows.Scan(&s.RequestID, &s.MemberID, &s.HasSigned, &s.SignedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkSigned(ctx context.Context, requestID, memberID string, at time.Time) (bool, error) {
	query :=
		`UPDATE signatures
		 SET has_signed = TRUE, signed_at = $3
		 WHERE request_id = $1 AND member_id = $2 AND has_signed = FALSE
		 `

	n, err := dbx.ExecRows(ctx, r.db, query, requestID, memberID, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
