package services

import (
	"context"

	"github.com/autohaven/apiserver/types"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Get(ctx context.Context, id int) (types.Review, error)
	List(ctx context.Context) ([]types.Review, error)
	ListForCar(ctx context.Context, carID int) ([]types.Review, error)
	ListForSeller(ctx context.Context, userID int) ([]types.Review, error)
	Create(ctx context.Context, review types.Review) (types.Review, error)
}

// ReviewService encapsulates review use-cases.
type ReviewService struct {
	repo ReviewRepository
}

func NewReviewService(repo ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

func (s *ReviewService) Get(ctx context.Context, id int) (types.Review, error) {
	return s.repo.Get(ctx, id)
}

func (s *ReviewService) List(ctx context.Context) ([]types.Review, error) {
	return s.repo.List(ctx)
}

func (s *ReviewService) ListForCar(ctx context.Context, carID int) ([]types.Review, error) {
	return s.repo.ListForCar(ctx, carID)
}

func (s *ReviewService) ListForSeller(ctx context.Context, userID int) ([]types.Review, error) {
	return s.repo.ListForSeller(ctx, userID)
}

func (s *ReviewService) Create(ctx context.Context, review types.Review) (types.Review, error) {
	return s.repo.Create(ctx, review)
}
