package memory_test

import (
	"context"
	"testing"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/internal/store/memory"
	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRoundTrip(t *testing.T) {
	repo := memory.NewFavoriteRepository()
	ctx := context.Background()

	saved, err := repo.IsFavorite(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, saved)

	fav, err := repo.Create(ctx, types.Favorite{UserID: 1, CarID: 10})
	require.NoError(t, err)
	assert.NotZero(t, fav.ID)

	saved, err = repo.IsFavorite(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, saved)

	favorites, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 10, favorites[0].CarID)
}

func TestFavoriteDuplicateRejected(t *testing.T) {
	repo := memory.NewFavoriteRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, types.Favorite{UserID: 1, CarID: 10})
	require.NoError(t, err)

	_, err = repo.Create(ctx, types.Favorite{UserID: 1, CarID: 10})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// The same car saved by another user is a distinct pair.
	_, err = repo.Create(ctx, types.Favorite{UserID: 2, CarID: 10})
	assert.NoError(t, err)
}

func TestFavoriteDeleteByPair(t *testing.T) {
	repo := memory.NewFavoriteRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, types.Favorite{UserID: 1, CarID: 10})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, deleted)

	saved, err := repo.IsFavorite(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, saved)
}
