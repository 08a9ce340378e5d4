package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// MessageRepository implements domain.MessageRepository using PostgreSQL
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = "id, chat_id, user_id, content, created_at"

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.ChatID, &m.UserID, &m.Content, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByID retrieves a message by its ID
func (r *MessageRepository) GetByID(id int32) (*domain.Message, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+messageColumns+" FROM messages WHERE id = $1", id)
	return scanMessage(row)
}

// GetAllByChat retrieves all messages for a chat in creation order
func (r *MessageRepository) GetAllByChat(chatID int32) ([]*domain.Message, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+messageColumns+" FROM messages WHERE chat_id = $1 ORDER BY created_at, id", chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// Create inserts the message and bumps the chat's last_message_at in one
// transaction
func (r *MessageRepository) Create(message *domain.Message) (*domain.Message, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanMessage(tx.QueryRow(ctx, `
		INSERT INTO messages (chat_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns,
		message.ChatID, message.UserID, message.Content))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE chats SET last_message_at = $2 WHERE id = $1",
		created.ChatID, created.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateContent replaces a message's content; author and timestamps are
// immutable
func (r *MessageRepository) UpdateContent(id int32, content string) (*domain.Message, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE messages SET content = $2
		WHERE id = $1
		RETURNING `+messageColumns, id, content)
	return scanMessage(row)
}

// Delete removes a message
func (r *MessageRepository) Delete(id int32) error {
	cmd, err := r.pool.Exec(context.Background(),
		"DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
