package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// ColumnRepository implements domain.ColumnRepository using PostgreSQL
type ColumnRepository struct {
	pool *pgxpool.Pool
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(pool *pgxpool.Pool) *ColumnRepository {
	return &ColumnRepository{pool: pool}
}

func scanColumn(row pgx.Row) (*domain.Column, error) {
	var c domain.Column
	err := row.Scan(&c.ID, &c.Title, &c.Position, &c.BoardID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrColumnNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a column by its ID
func (r *ColumnRepository) GetByID(id int32) (*domain.Column, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, title, position, board_id FROM columns WHERE id = $1", id)
	return scanColumn(row)
}

// GetAllByBoard retrieves all columns for a board in position order
func (r *ColumnRepository) GetAllByBoard(boardID int32) ([]*domain.Column, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT id, title, position, board_id FROM columns WHERE board_id = $1 ORDER BY position, id", boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.Title, &c.Position, &c.BoardID); err != nil {
			return nil, err
		}
		columns = append(columns, &c)
	}
	return columns, rows.Err()
}

// Create inserts a new column
func (r *ColumnRepository) Create(column *domain.Column) (*domain.Column, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO columns (title, position, board_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, position, board_id`,
		column.Title, column.Position, column.BoardID)
	return scanColumn(row)
}

// Update changes a column's title and position. The board FK is not
// updatable; columns never move between boards.
func (r *ColumnRepository) Update(column *domain.Column) (*domain.Column, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE columns SET title = $2, position = $3
		WHERE id = $1
		RETURNING id, title, position, board_id`,
		column.ID, column.Title, column.Position)
	return scanColumn(row)
}

// Delete removes a column with its tasks and their tag links in one
// transaction
func (r *ColumnRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM task_tags tt USING tasks t WHERE tt.task_id = t.id AND t.column_id = $1`,
		`DELETE FROM tasks WHERE column_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("column cascade delete: %w", err)
		}
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM columns WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrColumnNotFound
	}

	return tx.Commit(ctx)
}
