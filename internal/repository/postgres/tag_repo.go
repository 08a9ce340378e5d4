package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// TagRepository implements domain.TagRepository using PostgreSQL
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func scanTag(row pgx.Row) (*domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.ID, &t.Title, &t.BoardID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a tag by its ID
func (r *TagRepository) GetByID(id int32) (*domain.Tag, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT id, title, board_id FROM tags WHERE id = $1", id)
	return scanTag(row)
}

// GetAllByBoard retrieves all tags for a board
func (r *TagRepository) GetAllByBoard(boardID int32) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT id, title, board_id FROM tags WHERE board_id = $1 ORDER BY title", boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTags(rows)
}

// GetAllForTask retrieves the tags attached to a task
func (r *TagRepository) GetAllForTask(taskID int32) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT t.id, t.title, t.board_id
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = $1
		ORDER BY t.title`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTags(rows)
}

// Create inserts a new tag
func (r *TagRepository) Create(tag *domain.Tag) (*domain.Tag, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO tags (title, board_id)
		VALUES ($1, $2)
		RETURNING id, title, board_id`,
		tag.Title, tag.BoardID)
	return scanTag(row)
}

// Update changes a tag's title. The board FK is immutable after creation.
func (r *TagRepository) Update(id int32, title string) (*domain.Tag, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE tags SET title = $2
		WHERE id = $1
		RETURNING id, title, board_id`, id, title)
	return scanTag(row)
}

// Delete removes a tag and its task links in one transaction
func (r *TagRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM task_tags WHERE tag_id = $1", id); err != nil {
		return fmt.Errorf("tag cascade delete: %w", err)
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}

	return tx.Commit(ctx)
}

func collectTags(rows pgx.Rows) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.BoardID); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}
