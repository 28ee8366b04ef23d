// Package memory provides map-backed implementations of the record
// store repositories. Each repository guards its collection with a
// RWMutex and hands out sequential identifiers that are never reused,
// matching the contract of the SQL-backed repositories in
// internal/store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// UserRepository keeps users in process memory.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int]types.User
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]types.User),
		nextID: 1,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id int, update types.UserUpdate) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
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
	r.users[id] = user
	return user, nil
}
