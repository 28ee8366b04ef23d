package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewValidation(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, _ := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")
	car := createCar(t, router, sellerToken, validCarPayload())

	rec := doRequest(t, router, http.MethodPost, "/api/reviews", "", map[string]any{
		"car_id": car.ID, "rating": 5,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	for _, rating := range []int{0, -1, 6} {
		rec = doRequest(t, router, http.MethodPost, "/api/reviews", buyerToken, map[string]any{
			"car_id": car.ID, "rating": rating, "comment": "meh",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/reviews", buyerToken, map[string]any{
		"car_id": 9999, "rating": 4, "comment": "ghost car",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewLifecycle(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, seller := registerUser(t, router, "seller")
	buyerToken, buyer := registerUser(t, router, "buyer")
	car := createCar(t, router, sellerToken, validCarPayload())

	rec := doRequest(t, router, http.MethodPost, "/api/reviews", buyerToken, map[string]any{
		"car_id": car.ID, "rating": 5, "comment": "Great seller, smooth deal",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var review types.Review
	decodeBody(t, rec, &review)
	assert.Equal(t, seller.ID, review.UserID, "review targets the seller")
	assert.Equal(t, buyer.ID, review.ReviewerID)
	assert.Equal(t, car.ID, review.CarID)
	assert.Equal(t, 5, review.Rating)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/cars/%d/reviews", car.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var carReviews []types.Review
	decodeBody(t, rec, &carReviews)
	require.Len(t, carReviews, 1)
	assert.Equal(t, review.ID, carReviews[0].ID)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/reviews", seller.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sellerReviews []types.Review
	decodeBody(t, rec, &sellerReviews)
	require.Len(t, sellerReviews, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var allReviews []types.Review
	decodeBody(t, rec, &allReviews)
	require.Len(t, allReviews, 1)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/reviews/%d", review.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/cars/9999/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
