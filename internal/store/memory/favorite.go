package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// FavoriteRepository keeps saved listings in process memory. The
// duplicate check and the insert run under the same write lock, so
// concurrent saves of the same (user, car) pair cannot both land.
type FavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[int]types.Favorite
	nextID    int
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{
		favorites: make(map[int]types.Favorite),
		nextID:    1,
	}
}

func (r *FavoriteRepository) Get(ctx context.Context, id int) (types.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fav, ok := r.favorites[id]
	if !ok {
		return types.Favorite{}, store.ErrNotFound
	}
	return fav, nil
}

func (r *FavoriteRepository) ListForUser(ctx context.Context, userID int) ([]types.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorites := make([]types.Favorite, 0)
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			favorites = append(favorites, fav)
		}
	}

	sort.Slice(favorites, func(i, j int) bool {
		if !favorites[i].CreatedAt.Equal(favorites[j].CreatedAt) {
			return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
		}
		return favorites[i].ID > favorites[j].ID
	})
	return favorites, nil
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, carID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(userID, carID) != 0, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, fav types.Favorite) (types.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(fav.UserID, fav.CarID) != 0 {
		return types.Favorite{}, store.ErrDuplicate
	}
	fav.ID = r.nextID
	r.nextID++
	fav.CreatedAt = time.Now()
	r.favorites[fav.ID] = fav
	return fav, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, carID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.find(userID, carID)
	if id == 0 {
		return false, nil
	}
	delete(r.favorites, id)
	return true, nil
}

// find returns the favorite ID for the pair, or zero. Callers must hold
// the lock.
func (r *FavoriteRepository) find(userID, carID int) int {
	for id, fav := range r.favorites {
		if fav.UserID == userID && fav.CarID == carID {
			return id
		}
	}
	return 0
}
