package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autohaven/apiserver/types"
)

// ReviewRepository handles persistence for seller reviews. Reviews are
// append-only; there is no update or delete.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, user_id, reviewer_id, car_id, rating, comment, created_at`

func scanReview(row carScanner) (types.Review, error) {
	var review types.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ReviewerID,
		&review.CarID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	return review, err
}

func (r *ReviewRepository) Get(ctx context.Context, id int) (types.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1`
	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Review{}, ErrNotFound
		}
		return types.Review{}, err
	}
	return review, nil
}

// List returns every review, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]types.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC, id DESC`
	return r.listReviews(ctx, query)
}

// ListForCar returns the reviews attached to a listing, newest first.
func (r *ReviewRepository) ListForCar(ctx context.Context, carID int) ([]types.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE car_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.listReviews(ctx, query, carID)
}

// ListForSeller returns the reviews written about a seller, newest first.
func (r *ReviewRepository) ListForSeller(ctx context.Context, userID int) ([]types.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.listReviews(ctx, query, userID)
}

func (r *ReviewRepository) listReviews(ctx context.Context, query string, args ...any) ([]types.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review types.Review) (types.Review, error) {
	review.CreatedAt = time.Now()

	const query = `
		INSERT INTO reviews (user_id, reviewer_id, car_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		review.UserID,
		review.ReviewerID,
		review.CarID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID); err != nil {
		return types.Review{}, err
	}
	return review, nil
}
