package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autohaven/apiserver/internal/handlers"
	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/store/memory"
	"github.com/autohaven/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

// newTestAPI wires the full route tree over a fresh memory store, the
// same way the server does.
func newTestAPI(t *testing.T) *chi.Mux {
	t.Helper()

	users := memory.NewUserRepository()
	cars := memory.NewCarRepository()
	messages := memory.NewMessageRepository()
	reviews := memory.NewReviewRepository()
	favorites := memory.NewFavoriteRepository()

	userService := services.NewUserService(users)
	carService := services.NewCarService(cars, nil, nil, zap.NewNop())
	messageService := services.NewMessageService(messages, nil)
	reviewService := services.NewReviewService(reviews)
	favoriteService := services.NewFavoriteService(favorites, cars)

	auth := handlers.RequireAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, testJWTSecret)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, carService, reviewService, auth)
		})
		r.Route("/cars", func(r chi.Router) {
			handlers.CarRouter(r, carService, reviewService, auth)
		})
		r.Route("/messages", func(r chi.Router) {
			handlers.MessageRouter(r, messageService, userService, auth)
		})
		r.Route("/reviews", func(r chi.Router) {
			handlers.ReviewRouter(r, reviewService, carService, auth)
		})
		r.Route("/favorites", func(r chi.Router) {
			handlers.FavoriteRouter(r, favoriteService, carService, auth)
		})
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func registerUser(t *testing.T, router http.Handler, username string) (string, types.User) {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"name":     "Test " + username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handlers.AuthResponse
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func validCarPayload() map[string]any {
	return map[string]any{
		"title":        "2020 Toyota Camry",
		"make":         "Toyota",
		"model":        "Camry",
		"year":         2020,
		"price":        25000,
		"mileage":      30000,
		"condition":    "excellent",
		"fuel":         "gasoline",
		"transmission": "automatic",
		"description":  "Well maintained",
		"location":     "Austin, TX",
		"features":     []string{"Sunroof", "Bluetooth"},
	}
}

func createCar(t *testing.T, router http.Handler, token string, payload map[string]any) types.Car {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/cars", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var car types.Car
	decodeBody(t, rec, &car)
	require.NotZero(t, car.ID)
	return car
}

func TestHealthz(t *testing.T) {
	router := newTestAPI(t)
	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestAPI(t)

	token, user := registerUser(t, router, "alice")
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	// The same username cannot register twice.
	rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"name":     "Other Alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nor the same email under a new username.
	rec = doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"name":     "Alice Two",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login handlers.AuthResponse
	decodeBody(t, rec, &login)
	assert.Equal(t, user.ID, login.User.ID)

	rec = doRequest(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me types.User
	decodeBody(t, rec, &me)
	assert.Equal(t, user.ID, me.ID)

	rec = doRequest(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserProfile(t *testing.T) {
	router := newTestAPI(t)

	tokenA, userA := registerUser(t, router, "seller")
	_, userB := registerUser(t, router, "buyer")

	createCar(t, router, tokenA, validCarPayload())

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", userA.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched types.User
	decodeBody(t, rec, &fetched)
	assert.Equal(t, userA.Username, fetched.Username)
	assert.Empty(t, fetched.PasswordHash)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d/cars", userA.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cars []types.Car
	decodeBody(t, rec, &cars)
	assert.Len(t, cars, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/users/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Profiles can only be edited by their owner.
	bio := "Selling my cars"
	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", userB.ID), tokenA, map[string]string{"bio": bio})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", userA.ID), tokenA, map[string]string{"bio": bio})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.User
	decodeBody(t, rec, &updated)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, userA.Name, updated.Name)
}
