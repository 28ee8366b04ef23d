package services

import (
	"context"
	"errors"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// FavoriteRepository defines persistence operations for saved listings.
// Create returns store.ErrDuplicate for an already-saved (user, car)
// pair; uniqueness is the repository's responsibility, not the caller's.
type FavoriteRepository interface {
	Get(ctx context.Context, id int) (types.Favorite, error)
	ListForUser(ctx context.Context, userID int) ([]types.Favorite, error)
	IsFavorite(ctx context.Context, userID, carID int) (bool, error)
	Create(ctx context.Context, fav types.Favorite) (types.Favorite, error)
	Delete(ctx context.Context, userID, carID int) (bool, error)
}

// FavoriteWithCar pairs a favorite with the listing it points at.
type FavoriteWithCar struct {
	Favorite types.Favorite `json:"favorite"`
	Car      types.Car      `json:"car"`
}

// FavoriteService encapsulates saved-listing use-cases.
type FavoriteService struct {
	repo FavoriteRepository
	cars CarRepository
}

func NewFavoriteService(repo FavoriteRepository, cars CarRepository) *FavoriteService {
	return &FavoriteService{repo: repo, cars: cars}
}

// ListForUser returns the user's saved listings paired with their cars.
// Favorites whose car has since been deleted are dropped from the
// result.
func (s *FavoriteService) ListForUser(ctx context.Context, userID int) ([]FavoriteWithCar, error) {
	favorites, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]FavoriteWithCar, 0, len(favorites))
	for _, fav := range favorites {
		car, err := s.cars.Get(ctx, fav.CarID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, FavoriteWithCar{Favorite: fav, Car: car})
	}
	return result, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, carID int) (bool, error) {
	return s.repo.IsFavorite(ctx, userID, carID)
}

func (s *FavoriteService) Create(ctx context.Context, userID, carID int) (types.Favorite, error) {
	return s.repo.Create(ctx, types.Favorite{UserID: userID, CarID: carID})
}

func (s *FavoriteService) Delete(ctx context.Context, userID, carID int) (bool, error) {
	return s.repo.Delete(ctx, userID, carID)
}
