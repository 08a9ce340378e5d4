package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// ChatRepository implements domain.ChatRepository using PostgreSQL
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

const chatColumns = "id, type, workbench_id, name, created_at, last_message_at"

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var c domain.Chat
	err := row.Scan(&c.ID, &c.Type, &c.WorkbenchID, &c.Name, &c.CreatedAt, &c.LastMessageAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a chat by its ID
func (r *ChatRepository) GetByID(id int32) (*domain.Chat, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+chatColumns+" FROM chats WHERE id = $1", id)
	return scanChat(row)
}

// GetAllForUser retrieves the chats in a workbench the user belongs to,
// most recently active first
func (r *ChatRepository) GetAllForUser(workbenchID int32, userID uuid.UUID) ([]*domain.Chat, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT c.id, c.type, c.workbench_id, c.name, c.created_at, c.last_message_at
		FROM chats c
		JOIN chat_users cu ON cu.chat_id = c.id
		WHERE c.workbench_id = $1 AND cu.user_id = $2
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC`,
		workbenchID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.Type, &c.WorkbenchID, &c.Name, &c.CreatedAt, &c.LastMessageAt); err != nil {
			return nil, err
		}
		chats = append(chats, &c)
	}
	return chats, rows.Err()
}

// CreateDirect inserts a direct chat and both roleless member rows in one
// transaction
func (r *ChatRepository) CreateDirect(chat *domain.Chat, userA, userB uuid.UUID) (*domain.Chat, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanChat(tx.QueryRow(ctx, `
		INSERT INTO chats (type, workbench_id, name)
		VALUES ($1, $2, NULL)
		RETURNING `+chatColumns,
		domain.ChatTypeDirect, chat.WorkbenchID))
	if err != nil {
		return nil, err
	}

	for _, userID := range []uuid.UUID{userA, userB} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_users (chat_id, user_id, role)
			VALUES ($1, $2, NULL)`, created.ID, userID); err != nil {
			return nil, fmt.Errorf("direct chat member insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateGroup inserts a group chat, the creator as chat admin, and the other
// members in one transaction
func (r *ChatRepository) CreateGroup(chat *domain.Chat, creator uuid.UUID, memberIDs []uuid.UUID) (*domain.Chat, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanChat(tx.QueryRow(ctx, `
		INSERT INTO chats (type, workbench_id, name)
		VALUES ($1, $2, $3)
		RETURNING `+chatColumns,
		domain.ChatTypeGroup, chat.WorkbenchID, chat.Name))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_users (chat_id, user_id, role)
		VALUES ($1, $2, $3)`, created.ID, creator, domain.ChatRoleAdmin); err != nil {
		return nil, fmt.Errorf("group chat creator insert: %w", err)
	}

	for _, memberID := range memberIDs {
		if memberID == creator {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_users (chat_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (chat_id, user_id) DO NOTHING`,
			created.ID, memberID, domain.ChatRoleMember); err != nil {
			return nil, fmt.Errorf("group chat member insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateName renames a chat
func (r *ChatRepository) UpdateName(id int32, name string) (*domain.Chat, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE chats SET name = $2
		WHERE id = $1
		RETURNING `+chatColumns, id, name)
	return scanChat(row)
}

// Delete removes a chat with its messages and member rows in one transaction
func (r *ChatRepository) Delete(id int32) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM messages WHERE chat_id = $1`,
		`DELETE FROM chat_users WHERE chat_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("chat cascade delete: %w", err)
		}
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM chats WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}

	return tx.Commit(ctx)
}

// GetMembership looks up a single chat membership row
func (r *ChatRepository) GetMembership(chatID int32, userID uuid.UUID) (*domain.ChatUser, error) {
	var cu domain.ChatUser
	err := r.pool.QueryRow(context.Background(), `
		SELECT chat_id, user_id, role, joined_at
		FROM chat_users
		WHERE chat_id = $1 AND user_id = $2`,
		chatID, userID).Scan(&cu.ChatID, &cu.UserID, &cu.Role, &cu.JoinedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotChatMember
		}
		return nil, err
	}
	return &cu, nil
}

// ListMembers retrieves all members of a chat
func (r *ChatRepository) ListMembers(chatID int32) ([]*domain.ChatUser, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT chat_id, user_id, role, joined_at
		FROM chat_users
		WHERE chat_id = $1
		ORDER BY joined_at`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ChatUser
	for rows.Next() {
		var cu domain.ChatUser
		if err := rows.Scan(&cu.ChatID, &cu.UserID, &cu.Role, &cu.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, &cu)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the chat
func (r *ChatRepository) IsMember(chatID int32, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM chat_users WHERE chat_id = $1 AND user_id = $2
		)`, chatID, userID).Scan(&exists)
	return exists, err
}
