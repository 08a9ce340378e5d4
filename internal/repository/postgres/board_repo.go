package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// BoardRepository implements domain.BoardRepository using PostgreSQL
type BoardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(pool *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{pool: pool}
}

const boardColumns = "id, name, workbench_id, created_at, updated_at"

func scanBoard(row pgx.Row) (*domain.Board, error) {
	var b domain.Board
	err := row.Scan(&b.ID, &b.Name, &b.WorkbenchID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBoardNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByID retrieves a board by its ID
func (r *BoardRepository) GetByID(id int32) (*domain.Board, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+boardColumns+" FROM boards WHERE id = $1", id)
	return scanBoard(row)
}

// GetAllByWorkbench retrieves all boards for a workbench
func (r *BoardRepository) GetAllByWorkbench(workbenchID int32) ([]*domain.Board, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+boardColumns+" FROM boards WHERE workbench_id = $1 ORDER BY created_at", workbenchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.WorkbenchID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, &b)
	}
	return boards, rows.Err()
}

// Create inserts a new board
func (r *BoardRepository) Create(board *domain.Board) (*domain.Board, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO boards (name, workbench_id)
		VALUES ($1, $2)
		RETURNING `+boardColumns,
		board.Name, board.WorkbenchID)
	return scanBoard(row)
}

// Update renames a board
func (r *BoardRepository) Update(id int32, name string) (*domain.Board, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE boards SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+boardColumns, id, name)
	return scanBoard(row)
}

// Delete removes a board and everything under it, leaf tables first, in one
// transaction
func (r *BoardRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM task_tags tt USING tasks t, columns c
		 WHERE tt.task_id = t.id AND t.column_id = c.id AND c.board_id = $1`,
		`DELETE FROM tasks t USING columns c WHERE t.column_id = c.id AND c.board_id = $1`,
		`DELETE FROM columns WHERE board_id = $1`,
		`DELETE FROM tags WHERE board_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("board cascade delete: %w", err)
		}
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM boards WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}

	return tx.Commit(ctx)
}
