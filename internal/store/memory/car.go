package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// CarRepository keeps car listings in process memory.
type CarRepository struct {
	mu     sync.RWMutex
	cars   map[int]types.Car
	nextID int
}

func NewCarRepository() *CarRepository {
	return &CarRepository{
		cars:   make(map[int]types.Car),
		nextID: 1,
	}
}

func (r *CarRepository) Get(ctx context.Context, id int) (types.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	car, ok := r.cars[id]
	if !ok {
		return types.Car{}, store.ErrNotFound
	}
	return car, nil
}

// List returns the cars matching every set field of the filter, newest
// first. An empty filter returns the whole collection.
func (r *CarRepository) List(ctx context.Context, filter types.CarFilter) ([]types.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cars := make([]types.Car, 0, len(r.cars))
	for _, car := range r.cars {
		if matchesFilter(car, filter) {
			cars = append(cars, car)
		}
	}

	// Seeded fixtures are created in a tight loop, so equal timestamps
	// happen; the monotonic ID breaks the tie in insertion order.
	sort.Slice(cars, func(i, j int) bool {
		if !cars[i].CreatedAt.Equal(cars[j].CreatedAt) {
			return cars[i].CreatedAt.After(cars[j].CreatedAt)
		}
		return cars[i].ID > cars[j].ID
	})
	return cars, nil
}

func matchesFilter(car types.Car, filter types.CarFilter) bool {
	if filter.UserID != 0 && car.UserID != filter.UserID {
		return false
	}
	if filter.Make != "" && car.Make != filter.Make {
		return false
	}
	if filter.Model != "" && car.Model != filter.Model {
		return false
	}
	if filter.Condition != "" && car.Condition != filter.Condition {
		return false
	}
	if filter.Fuel != "" && car.Fuel != filter.Fuel {
		return false
	}
	if filter.Transmission != "" && car.Transmission != filter.Transmission {
		return false
	}
	return true
}

func (r *CarRepository) Create(ctx context.Context, car types.Car) (types.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	car.ID = r.nextID
	r.nextID++
	car.CreatedAt = time.Now()
	if car.Features == nil {
		car.Features = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	r.cars[car.ID] = car
	return car, nil
}

func (r *CarRepository) Update(ctx context.Context, id int, update types.CarUpdate) (types.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	car, ok := r.cars[id]
	if !ok {
		return types.Car{}, store.ErrNotFound
	}
	car = update.Apply(car)
	r.cars[id] = car
	return car, nil
}

func (r *CarRepository) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return false, nil
	}
	delete(r.cars, id)
	return true, nil
}
