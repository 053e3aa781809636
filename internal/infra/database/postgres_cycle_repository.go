// internal/infra/database/postgres_cycle_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyclesync/internal/domain/cycle"

	"github.com/lib/pq"
)

// ErrEmptyUserID guards against unscoped queries; this store bypasses row policies.
var ErrEmptyUserID = fmt.Errorf("user id is required for cycle queries")

// QueryError wraps a driver failure and keeps the server's message for display.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("error %s: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

// UserMessage returns the PostgreSQL error message when there is one.
func (e *QueryError) UserMessage() string {
	var pqErr *pq.Error
	if errors.As(e.Err, &pqErr) {
		return pqErr.Message
	}
	return e.Err.Error()
}

type PostgresCycleRepository struct {
	db *sql.DB
}

func NewPostgresCycleRepository(db *sql.DB) *PostgresCycleRepository {
	return &PostgresCycleRepository{db: db}
}

func (r *PostgresCycleRepository) ListByUser(ctx context.Context, userID string) ([]*cycle.Cycle, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	query := `SELECT id, user_id, start_date, created_at
               FROM cycles WHERE user_id = $1
               ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, &QueryError{Op: "listing cycles", Err: err}
	}
	defer rows.Close()

	cycles := make([]*cycle.Cycle, 0)
	for rows.Next() {
		c := &cycle.Cycle{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.StartDate, &c.CreatedAt); err != nil {
			return nil, &QueryError{Op: "scanning cycle", Err: err}
		}
		cycles = append(cycles, c)
	}
	if err = rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterating cycles", Err: err}
	}
	return cycles, nil
}

func (r *PostgresCycleRepository) Create(ctx context.Context, c *cycle.Cycle) error {
	if c.UserID == "" {
		return ErrEmptyUserID
	}
	query := `INSERT INTO cycles (user_id, start_date)
               VALUES ($1, $2)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, c.UserID, c.StartDate).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return &QueryError{Op: "creating cycle", Err: err}
	}
	return nil
}

func (r *PostgresCycleRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
