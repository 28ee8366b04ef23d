package memory_test

import (
	"context"
	"testing"

	"github.com/autohaven/apiserver/internal/store/memory"
	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedPopulatesStore(t *testing.T) {
	users := memory.NewUserRepository()
	cars := memory.NewCarRepository()
	ctx := context.Background()

	require.NoError(t, memory.Seed(ctx, users, cars))

	seller, err := users.GetByUsername(ctx, "carseller")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte("password123")))

	listings, err := cars.List(ctx, types.CarFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, listings)

	for _, car := range listings {
		assert.Equal(t, seller.ID, car.UserID)
		assert.NotNil(t, car.Features)
		assert.NotNil(t, car.Images)
		assert.True(t, car.Condition.Valid(), "condition %q", car.Condition)
		assert.True(t, car.Fuel.Valid(), "fuel %q", car.Fuel)
		assert.True(t, car.Transmission.Valid(), "transmission %q", car.Transmission)
	}
}
