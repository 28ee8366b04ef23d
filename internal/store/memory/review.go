package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// ReviewRepository keeps seller reviews in process memory. Reviews are
// append-only.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[int]types.Review
	nextID  int
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[int]types.Review),
		nextID:  1,
	}
}

func (r *ReviewRepository) Get(ctx context.Context, id int) (types.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.reviews[id]
	if !ok {
		return types.Review{}, store.ErrNotFound
	}
	return review, nil
}

func (r *ReviewRepository) List(ctx context.Context) ([]types.Review, error) {
	return r.list(func(types.Review) bool { return true })
}

func (r *ReviewRepository) ListForCar(ctx context.Context, carID int) ([]types.Review, error) {
	return r.list(func(review types.Review) bool { return review.CarID == carID })
}

func (r *ReviewRepository) ListForSeller(ctx context.Context, userID int) ([]types.Review, error) {
	return r.list(func(review types.Review) bool { return review.UserID == userID })
}

func (r *ReviewRepository) list(match func(types.Review) bool) ([]types.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]types.Review, 0)
	for _, review := range r.reviews {
		if match(review) {
			reviews = append(reviews, review)
		}
	}

	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
	return reviews, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review types.Review) (types.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = r.nextID
	r.nextID++
	review.CreatedAt = time.Now()
	r.reviews[review.ID] = review
	return review, nil
}
