package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "id, auth0_id, email, display_name, avatar_url, created_at, updated_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByIDs retrieves users by a batch of IDs
func (r *UserRepository) GetByIDs(ids []uuid.UUID) ([]*domain.User, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+userColumns+" FROM users WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+userColumns+" FROM users WHERE auth0_id = $1", auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID inserts a user for the Auth0 subject if none exists
// and returns the stored row either way
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, displayName, avatarURL *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (id, auth0_id, email, display_name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+userColumns,
		uuid.New(), auth0ID, email, displayName, avatarURL)
	return scanUser(row)
}

// UpdateDisplayName updates the user's display name
func (r *UserRepository) UpdateDisplayName(id uuid.UUID, displayName string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET display_name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, displayName)
	return scanUser(row)
}

// UpdateAvatarURL updates (or clears) the user's avatar URL
func (r *UserRepository) UpdateAvatarURL(id uuid.UUID, avatarURL *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, avatarURL)
	return scanUser(row)
}

// SearchInWorkbench finds workbench members whose name or email matches the
// query, for invite pickers and mentions
func (r *UserRepository) SearchInWorkbench(workbenchID int32, query string, limit int32) ([]*domain.User, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+prefixedUserColumns("u")+`
		FROM users u
		JOIN workbench_members wm ON wm.user_id = u.id
		WHERE wm.workbench_id = $1
		  AND (u.display_name ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%')
		ORDER BY u.display_name
		LIMIT $3`, workbenchID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func prefixedUserColumns(alias string) string {
	return alias + ".id, " + alias + ".auth0_id, " + alias + ".email, " +
		alias + ".display_name, " + alias + ".avatar_url, " +
		alias + ".created_at, " + alias + ".updated_at"
}
