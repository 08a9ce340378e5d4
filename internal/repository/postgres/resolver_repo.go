package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// ResolverRepository implements domain.WorkbenchResolver using PostgreSQL.
// Each kind resolves in a single joined query; a missing row anywhere in the
// chain surfaces as ErrNotFound, never as an authorization failure.
type ResolverRepository struct {
	pool *pgxpool.Pool
}

// NewResolverRepository creates a new ResolverRepository
func NewResolverRepository(pool *pgxpool.Pool) *ResolverRepository {
	return &ResolverRepository{pool: pool}
}

var resolveQueries = map[domain.EntityKind]string{
	domain.KindBoard: `
		SELECT workbench_id FROM boards WHERE id = $1`,
	domain.KindColumn: `
		SELECT b.workbench_id
		FROM columns c
		JOIN boards b ON b.id = c.board_id
		WHERE c.id = $1`,
	domain.KindTag: `
		SELECT b.workbench_id
		FROM tags t
		JOIN boards b ON b.id = t.board_id
		WHERE t.id = $1`,
	domain.KindTask: `
		SELECT b.workbench_id
		FROM tasks t
		JOIN columns c ON c.id = t.column_id
		JOIN boards b ON b.id = c.board_id
		WHERE t.id = $1`,
	domain.KindChat: `
		SELECT workbench_id FROM chats WHERE id = $1`,
	domain.KindMessage: `
		SELECT ch.workbench_id
		FROM messages m
		JOIN chats ch ON ch.id = m.chat_id
		WHERE m.id = $1`,
}

// ResolveWorkbench walks the parent chain from the entity to its workbench
func (r *ResolverRepository) ResolveWorkbench(kind domain.EntityKind, id int32) (int32, error) {
	query, ok := resolveQueries[kind]
	if !ok {
		return 0, domain.ErrInvalidInput
	}

	var workbenchID int32
	err := r.pool.QueryRow(context.Background(), query, id).Scan(&workbenchID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return workbenchID, nil
}
