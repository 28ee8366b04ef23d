package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesFlow(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, _ := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")
	car := createCar(t, router, sellerToken, validCarPayload())

	rec := doRequest(t, router, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/favorites", buyerToken, map[string]any{"car_id": 9999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/favorites", buyerToken, map[string]any{"car_id": car.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var fav types.Favorite
	decodeBody(t, rec, &fav)
	assert.Equal(t, car.ID, fav.CarID)

	// Saving the same listing again is rejected.
	rec = doRequest(t, router, http.MethodPost, "/api/favorites", buyerToken, map[string]any{"car_id": car.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/favorites", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var favorites []services.FavoriteWithCar
	decodeBody(t, rec, &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, car.ID, favorites[0].Car.ID)
	assert.Equal(t, car.Title, favorites[0].Car.Title)

	// Another user's favorites are separate.
	rec = doRequest(t, router, http.MethodGet, "/api/favorites", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sellerFavorites []services.FavoriteWithCar
	decodeBody(t, rec, &sellerFavorites)
	assert.Empty(t, sellerFavorites)

	path := fmt.Sprintf("/api/favorites/%d", car.ID)
	rec = doRequest(t, router, http.MethodDelete, path, buyerToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, path, buyerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoritesDropDeletedCars(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, _ := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")

	kept := createCar(t, router, sellerToken, validCarPayload())
	doomed := createCar(t, router, sellerToken, validCarPayload())

	for _, id := range []int{kept.ID, doomed.ID} {
		rec := doRequest(t, router, http.MethodPost, "/api/favorites", buyerToken, map[string]any{"car_id": id})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/cars/%d", doomed.ID), sellerToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/favorites", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var favorites []services.FavoriteWithCar
	decodeBody(t, rec, &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, kept.ID, favorites[0].Car.ID)
}
