package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/autohaven/apiserver/internal/mq"
	"github.com/autohaven/apiserver/internal/storage"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
	"go.uber.org/zap"
)

// ErrStorageDisabled is returned when an image operation is attempted
// without a configured object storage backend.
var ErrStorageDisabled = errors.New("image storage is not configured")

// CarRepository defines persistence operations for car listings.
type CarRepository interface {
	Get(ctx context.Context, id int) (types.Car, error)
	List(ctx context.Context, filter types.CarFilter) ([]types.Car, error)
	Create(ctx context.Context, car types.Car) (types.Car, error)
	Update(ctx context.Context, id int, update types.CarUpdate) (types.Car, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// CarService encapsulates listing use-cases: CRUD, the search pipeline,
// image uploads, and lifecycle event publishing.
type CarService struct {
	repo    CarRepository
	storage *storage.Storage
	events  *mq.Publisher
	logger  *zap.Logger
}

func NewCarService(repo CarRepository, store *storage.Storage, events *mq.Publisher, logger *zap.Logger) *CarService {
	return &CarService{
		repo:    repo,
		storage: store,
		events:  events,
		logger:  logger,
	}
}

func (s *CarService) Get(ctx context.Context, id int) (types.Car, error) {
	return s.repo.Get(ctx, id)
}

func (s *CarService) List(ctx context.Context, filter types.CarFilter) ([]types.Car, error) {
	return s.repo.List(ctx, filter)
}

func (s *CarService) Create(ctx context.Context, car types.Car) (types.Car, error) {
	created, err := s.repo.Create(ctx, car)
	if err != nil {
		return types.Car{}, err
	}
	s.events.CarCreated(ctx, created.ID, created.UserID)
	return created, nil
}

func (s *CarService) Update(ctx context.Context, id int, update types.CarUpdate) (types.Car, error) {
	return s.repo.Update(ctx, id, update)
}

// Delete removes a listing, reporting whether one existed. Images the
// listing held in our own object storage are removed best-effort.
func (s *CarService) Delete(ctx context.Context, id int) (bool, error) {
	car, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if s.storage != nil {
		for _, url := range car.Images {
			key, ok := s.storage.KeyForURL(url)
			if !ok {
				continue
			}
			if err := s.storage.Delete(ctx, key); err != nil {
				s.logger.Warn("delete listing image", zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.events.CarDeleted(ctx, id, car.UserID)
	return true, nil
}

// Search runs the listing query pipeline: the exact-match criteria go to
// the store, then the numeric ranges and the feature requirement narrow
// the result in order. Every stage only removes cars; the store's
// newest-first ordering survives untouched.
func (s *CarService) Search(ctx context.Context, criteria types.CarSearchCriteria) ([]types.Car, error) {
	cars, err := s.repo.List(ctx, criteria.Filter())
	if err != nil {
		return nil, err
	}
	cars = narrowByRanges(cars, criteria)
	cars = narrowByFeatures(cars, criteria.Features)
	return cars, nil
}

func narrowByRanges(cars []types.Car, criteria types.CarSearchCriteria) []types.Car {
	out := make([]types.Car, 0, len(cars))
	for _, car := range cars {
		if !withinBounds(car.Price, criteria.MinPrice, criteria.MaxPrice) {
			continue
		}
		if !withinBounds(car.Year, criteria.MinYear, criteria.MaxYear) {
			continue
		}
		if !withinBounds(car.Mileage, criteria.MinMileage, criteria.MaxMileage) {
			continue
		}
		out = append(out, car)
	}
	return out
}

// withinBounds checks inclusive bounds; a nil bound imposes no
// constraint on that side.
func withinBounds(value int, min, max *int) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

// narrowByFeatures keeps cars whose feature list contains every required
// feature. A car with no features is excluded whenever anything is
// required.
func narrowByFeatures(cars []types.Car, required []string) []types.Car {
	if len(required) == 0 {
		return cars
	}

	out := make([]types.Car, 0, len(cars))
	for _, car := range cars {
		if hasAllFeatures(car.Features, required) {
			out = append(out, car)
		}
	}
	return out
}

func hasAllFeatures(features, required []string) bool {
	if len(features) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(features))
	for _, feature := range features {
		have[feature] = struct{}{}
	}
	for _, want := range required {
		if _, ok := have[want]; !ok {
			return false
		}
	}
	return true
}

// AddImage stores an uploaded image and appends its public URL to the
// listing, returning the updated car.
func (s *CarService) AddImage(ctx context.Context, carID int, filename string, data []byte, contentType string) (types.Car, error) {
	if s.storage == nil {
		return types.Car{}, ErrStorageDisabled
	}

	car, err := s.repo.Get(ctx, carID)
	if err != nil {
		return types.Car{}, err
	}

	key := imageKey(carID, filename)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return types.Car{}, fmt.Errorf("store image: %w", err)
	}

	images := append(car.Images, s.storage.URL(key))
	return s.repo.Update(ctx, carID, types.CarUpdate{Images: &images})
}

func imageKey(carID int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("cars/%d/%d%s", carID, time.Now().UnixNano(), ext)
}
