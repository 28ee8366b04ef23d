package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autohaven/apiserver/types"
	"github.com/lib/pq"
)

// pqUniqueViolation is the Postgres error code for a unique constraint
// violation.
const pqUniqueViolation = "23505"

// FavoriteRepository handles persistence for saved listings. The
// favorites table carries a UNIQUE (user_id, car_id) constraint, so
// concurrent saves of the same pair cannot both land.
type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

const favoriteColumns = `id, user_id, car_id, created_at`

func scanFavorite(row carScanner) (types.Favorite, error) {
	var fav types.Favorite
	err := row.Scan(&fav.ID, &fav.UserID, &fav.CarID, &fav.CreatedAt)
	return fav, err
}

func (r *FavoriteRepository) Get(ctx context.Context, id int) (types.Favorite, error) {
	const query = `
		SELECT ` + favoriteColumns + `
		FROM favorites
		WHERE id = $1`
	fav, err := scanFavorite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Favorite{}, ErrNotFound
		}
		return types.Favorite{}, err
	}
	return fav, nil
}

// ListForUser returns a user's saved listings, newest first.
func (r *FavoriteRepository) ListForUser(ctx context.Context, userID int) ([]types.Favorite, error) {
	const query = `
		SELECT ` + favoriteColumns + `
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]types.Favorite, 0)
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return favorites, nil
}

// IsFavorite reports whether the user has already saved the listing.
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, carID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND car_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, carID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create saves a listing for a user. Saving the same pair twice returns
// ErrDuplicate.
func (r *FavoriteRepository) Create(ctx context.Context, fav types.Favorite) (types.Favorite, error) {
	fav.CreatedAt = time.Now()

	const query = `
		INSERT INTO favorites (user_id, car_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, fav.UserID, fav.CarID, fav.CreatedAt).Scan(&fav.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return types.Favorite{}, ErrDuplicate
		}
		return types.Favorite{}, err
	}
	return fav, nil
}

// Delete removes the favorite for the (user, car) pair, reporting
// whether one existed.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, carID int) (bool, error) {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND car_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, carID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
