package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// WorkbenchRepository implements domain.WorkbenchRepository using PostgreSQL
type WorkbenchRepository struct {
	pool *pgxpool.Pool
}

// NewWorkbenchRepository creates a new WorkbenchRepository
func NewWorkbenchRepository(pool *pgxpool.Pool) *WorkbenchRepository {
	return &WorkbenchRepository{pool: pool}
}

const workbenchColumns = "id, name, owner_id, created_at, updated_at"

func scanWorkbench(row pgx.Row) (*domain.Workbench, error) {
	var w domain.Workbench
	err := row.Scan(&w.ID, &w.Name, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrWorkbenchNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetByID retrieves a workbench by its ID
func (r *WorkbenchRepository) GetByID(id int32) (*domain.Workbench, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+workbenchColumns+" FROM workbenches WHERE id = $1", id)
	return scanWorkbench(row)
}

// GetAllForUser retrieves every workbench the user is a member of
func (r *WorkbenchRepository) GetAllForUser(userID uuid.UUID) ([]*domain.Workbench, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT w.id, w.name, w.owner_id, w.created_at, w.updated_at
		FROM workbenches w
		JOIN workbench_members wm ON wm.workbench_id = w.id
		WHERE wm.user_id = $1
		ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Workbench
	for rows.Next() {
		var w domain.Workbench
		if err := rows.Scan(&w.ID, &w.Name, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &w)
	}
	return result, rows.Err()
}

// Create inserts the workbench and the creator's owner membership in one
// transaction
func (r *WorkbenchRepository) Create(workbench *domain.Workbench) (*domain.Workbench, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanWorkbench(tx.QueryRow(ctx, `
		INSERT INTO workbenches (name, owner_id)
		VALUES ($1, $2)
		RETURNING `+workbenchColumns,
		workbench.Name, workbench.OwnerID))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workbench_members (workbench_id, user_id, role)
		VALUES ($1, $2, $3)`,
		created.ID, workbench.OwnerID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Update renames a workbench
func (r *WorkbenchRepository) Update(id int32, name string) (*domain.Workbench, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE workbenches SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+workbenchColumns, id, name)
	return scanWorkbench(row)
}

// Delete removes a workbench and its whole hierarchy, leaf tables first, in
// one transaction
func (r *WorkbenchRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM task_tags tt USING tasks t, columns c, boards b
		 WHERE tt.task_id = t.id AND t.column_id = c.id AND c.board_id = b.id AND b.workbench_id = $1`,
		`DELETE FROM tasks t USING columns c, boards b
		 WHERE t.column_id = c.id AND c.board_id = b.id AND b.workbench_id = $1`,
		`DELETE FROM columns c USING boards b WHERE c.board_id = b.id AND b.workbench_id = $1`,
		`DELETE FROM tags tg USING boards b WHERE tg.board_id = b.id AND b.workbench_id = $1`,
		`DELETE FROM boards WHERE workbench_id = $1`,
		`DELETE FROM messages m USING chats ch WHERE m.chat_id = ch.id AND ch.workbench_id = $1`,
		`DELETE FROM chat_users cu USING chats ch WHERE cu.chat_id = ch.id AND ch.workbench_id = $1`,
		`DELETE FROM chats WHERE workbench_id = $1`,
		`DELETE FROM workbench_members WHERE workbench_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("workbench cascade delete: %w", err)
		}
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM workbenches WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrWorkbenchNotFound
	}

	return tx.Commit(ctx)
}

// GetMembership looks up a single membership row; this is the hottest query
// in the system and hits the composite primary key
func (r *WorkbenchRepository) GetMembership(workbenchID int32, userID uuid.UUID) (*domain.WorkbenchMember, error) {
	var m domain.WorkbenchMember
	err := r.pool.QueryRow(context.Background(), `
		SELECT workbench_id, user_id, role, joined_at
		FROM workbench_members
		WHERE workbench_id = $1 AND user_id = $2`,
		workbenchID, userID).Scan(&m.WorkbenchID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMembers retrieves all members of a workbench
func (r *WorkbenchRepository) ListMembers(workbenchID int32) ([]*domain.WorkbenchMember, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT workbench_id, user_id, role, joined_at
		FROM workbench_members
		WHERE workbench_id = $1
		ORDER BY joined_at`, workbenchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.WorkbenchMember
	for rows.Next() {
		var m domain.WorkbenchMember
		if err := rows.Scan(&m.WorkbenchID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// AddMember inserts a membership row
func (r *WorkbenchRepository) AddMember(member *domain.WorkbenchMember) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO workbench_members (workbench_id, user_id, role)
		VALUES ($1, $2, $3)`,
		member.WorkbenchID, member.UserID, member.Role)
	return err
}

// UpdateMemberRole changes a member's role
func (r *WorkbenchRepository) UpdateMemberRole(workbenchID int32, userID uuid.UUID, role domain.Role) error {
	cmd, err := r.pool.Exec(context.Background(), `
		UPDATE workbench_members SET role = $3
		WHERE workbench_id = $1 AND user_id = $2`,
		workbenchID, userID, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *WorkbenchRepository) RemoveMember(workbenchID int32, userID uuid.UUID) error {
	cmd, err := r.pool.Exec(context.Background(), `
		DELETE FROM workbench_members WHERE workbench_id = $1 AND user_id = $2`,
		workbenchID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// TransferOwnership promotes newOwner, removes the departing owner, and
// repoints the workbench owner column in one transaction. The partial unique
// index on (workbench_id) WHERE role = 'owner' forces the ordering: the old
// owner row is demoted before the new one is promoted.
func (r *WorkbenchRepository) TransferOwnership(workbenchID int32, oldOwner, newOwner uuid.UUID) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		DELETE FROM workbench_members
		WHERE workbench_id = $1 AND user_id = $2 AND role = $3`,
		workbenchID, oldOwner, domain.RoleOwner)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	cmd, err = tx.Exec(ctx, `
		UPDATE workbench_members SET role = $3
		WHERE workbench_id = $1 AND user_id = $2`,
		workbenchID, newOwner, domain.RoleOwner)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE workbenches SET owner_id = $2, updated_at = now() WHERE id = $1`,
		workbenchID, newOwner)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
