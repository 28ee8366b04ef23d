package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autohaven/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, name, bio, avatar, password_hash, created_at`

func scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Bio,
		&user.Avatar,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.CreatedAt = time.Now()

	const query = `
		INSERT INTO users (username, email, name, bio, avatar, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Name,
		user.Bio,
		user.Avatar,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Update applies a partial profile update and returns the merged user.
// It never creates a user.
func (r *UserRepository) Update(ctx context.Context, id int, update types.UserUpdate) (types.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	const query = `
		UPDATE users
		SET name = $1,
			bio = $2,
			avatar = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, user.Name, user.Bio, user.Avatar, id)
	if err != nil {
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}
