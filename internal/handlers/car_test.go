package handlers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCars(t *testing.T, router http.Handler, query string) []types.Car {
	t.Helper()

	rec := doRequest(t, router, http.MethodGet, "/api/cars"+query, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cars []types.Car
	decodeBody(t, rec, &cars)
	return cars
}

func TestCreateCarRequiresAuth(t *testing.T) {
	router := newTestAPI(t)

	rec := doRequest(t, router, http.MethodPost, "/api/cars", "", validCarPayload())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCarValidation(t *testing.T) {
	router := newTestAPI(t)
	token, user := registerUser(t, router, "seller")

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing title", func(p map[string]any) { p["title"] = "  " }},
		{"missing make", func(p map[string]any) { delete(p, "make") }},
		{"bad year", func(p map[string]any) { p["year"] = 0 }},
		{"negative price", func(p map[string]any) { p["price"] = -1 }},
		{"unknown condition", func(p map[string]any) { p["condition"] = "mint" }},
		{"unknown fuel", func(p map[string]any) { p["fuel"] = "steam" }},
		{"unknown transmission", func(p map[string]any) { p["transmission"] = "cvt9000" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validCarPayload()
			tc.mutate(payload)
			rec := doRequest(t, router, http.MethodPost, "/api/cars", token, payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	car := createCar(t, router, token, validCarPayload())
	assert.Equal(t, user.ID, car.UserID)
	assert.Equal(t, []string{"Sunroof", "Bluetooth"}, car.Features)
	assert.NotNil(t, car.Images)
}

func TestGetCar(t *testing.T) {
	router := newTestAPI(t)
	token, _ := registerUser(t, router, "seller")
	car := createCar(t, router, token, validCarPayload())

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/cars/%d", car.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched types.Car
	decodeBody(t, rec, &fetched)
	assert.Equal(t, car.ID, fetched.ID)

	rec = doRequest(t, router, http.MethodGet, "/api/cars/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/cars/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchCarsQueryParameters(t *testing.T) {
	router := newTestAPI(t)
	token, _ := registerUser(t, router, "seller")

	camry := createCar(t, router, token, validCarPayload())

	civic := validCarPayload()
	civic["title"] = "2019 Honda Civic"
	civic["make"] = "Honda"
	civic["model"] = "Civic"
	civic["year"] = 2019
	civic["price"] = 18000
	civic["fuel"] = "hybrid"
	civic["features"] = []string{"Bluetooth"}
	civicCar := createCar(t, router, token, civic)

	cars := listCars(t, router, "")
	require.Len(t, cars, 2)
	assert.Equal(t, civicCar.ID, cars[0].ID, "newest listing first")

	cars = listCars(t, router, "?make=Toyota")
	require.Len(t, cars, 1)
	assert.Equal(t, camry.ID, cars[0].ID)

	cars = listCars(t, router, "?minPrice=20000")
	require.Len(t, cars, 1)
	assert.Equal(t, camry.ID, cars[0].ID)

	cars = listCars(t, router, "?features=Sunroof,Bluetooth")
	require.Len(t, cars, 1)
	assert.Equal(t, camry.ID, cars[0].ID)

	cars = listCars(t, router, "?make=Honda&minYear=2019&maxYear=2019")
	require.Len(t, cars, 1)
	assert.Equal(t, civicCar.ID, cars[0].ID)

	// A bound that is not a number is ignored, not rejected.
	cars = listCars(t, router, "?minPrice=cheap")
	assert.Len(t, cars, 2)
}

func TestUpdateCarOwnership(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, _ := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")

	car := createCar(t, router, sellerToken, validCarPayload())
	path := fmt.Sprintf("/api/cars/%d", car.ID)

	rec := doRequest(t, router, http.MethodPut, path, "", map[string]any{"price": 20000})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPut, path, buyerToken, map[string]any{"price": 20000})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/api/cars/9999", buyerToken, map[string]any{"price": 20000})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPut, path, sellerToken, map[string]any{"condition": "mint"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, path, sellerToken, map[string]any{"price": 20000})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Car
	decodeBody(t, rec, &updated)
	assert.Equal(t, 20000, updated.Price)
	assert.Equal(t, car.Title, updated.Title, "unset fields keep their values")
	assert.Equal(t, car.Features, updated.Features)
}

func TestDeleteCarOwnership(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, _ := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")

	car := createCar(t, router, sellerToken, validCarPayload())
	path := fmt.Sprintf("/api/cars/%d", car.ID)

	rec := doRequest(t, router, http.MethodDelete, path, buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, path, sellerToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The listing is gone, so a second delete is a 404.
	rec = doRequest(t, router, http.MethodDelete, path, sellerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	router := newTestAPI(t)
	token, _ := registerUser(t, router, "seller")
	car := createCar(t, router, token, validCarPayload())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/cars/%d/images", car.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
