package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// TaskRepository implements domain.TaskRepository using PostgreSQL
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = "id, title, description, position, created_on, due_date, column_id"

func scanTask(row pgx.Row) (*domain.TaskItem, error) {
	var t domain.TaskItem
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Position, &t.CreatedOn, &t.DueDate, &t.ColumnID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(id int32) (*domain.TaskItem, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	return scanTask(row)
}

// GetAllByColumn retrieves all tasks for a column in position order
func (r *TaskRepository) GetAllByColumn(columnID int32) ([]*domain.TaskItem, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+taskColumns+" FROM tasks WHERE column_id = $1 ORDER BY position, id", columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.TaskItem
	for rows.Next() {
		var t domain.TaskItem
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Position, &t.CreatedOn, &t.DueDate, &t.ColumnID); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// Create inserts a new task
func (r *TaskRepository) Create(task *domain.TaskItem) (*domain.TaskItem, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO tasks (title, description, position, due_date, column_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns,
		task.Title, task.Description, task.Position, task.DueDate, task.ColumnID)
	return scanTask(row)
}

// Update changes a task's fields, including its column FK. Same-board
// enforcement for column moves belongs to the service layer.
func (r *TaskRepository) Update(task *domain.TaskItem) (*domain.TaskItem, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE tasks SET title = $2, description = $3, position = $4, due_date = $5, column_id = $6
		WHERE id = $1
		RETURNING `+taskColumns,
		task.ID, task.Title, task.Description, task.Position, task.DueDate, task.ColumnID)
	return scanTask(row)
}

// Delete removes a task and its tag links in one transaction
func (r *TaskRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM task_tags WHERE task_id = $1", id); err != nil {
		return fmt.Errorf("task cascade delete: %w", err)
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return tx.Commit(ctx)
}

// AttachTag links a tag to a task; attaching twice leaves a single row
func (r *TaskRepository) AttachTag(taskID, tagID int32) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO task_tags (task_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, tag_id) DO NOTHING`,
		taskID, tagID)
	return err
}

// DetachTag removes a tag link from a task
func (r *TaskRepository) DetachTag(taskID, tagID int32) error {
	cmd, err := r.pool.Exec(context.Background(),
		"DELETE FROM task_tags WHERE task_id = $1 AND tag_id = $2", taskID, tagID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}
