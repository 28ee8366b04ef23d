package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides HTTP handlers for public user profiles.
type UserHandler struct {
	userService   *services.UserService
	carService    *services.CarService
	reviewService *services.ReviewService
}

// NewUserHandler constructs a handler with the provided services.
func NewUserHandler(
	userService *services.UserService,
	carService *services.CarService,
	reviewService *services.ReviewService,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		carService:    carService,
		reviewService: reviewService,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(
	r chi.Router,
	userService *services.UserService,
	carService *services.CarService,
	reviewService *services.ReviewService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewUserHandler(userService, carService, reviewService)

	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Get("/cars", handler.ListUserCars)
		r.Get("/reviews", handler.ListUserReviews)
		r.With(authMiddleware).Put("/", handler.UpdateUser)
	})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ListUserCars lists the user's own listings, newest first.
func (h *UserHandler) ListUserCars(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.userService.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	cars, err := h.carService.List(r.Context(), types.CarFilter{UserID: id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cars")
		return
	}

	writeJSON(w, http.StatusOK, cars)
}

// ListUserReviews lists reviews written about the user as a seller.
func (h *UserHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.userService.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	reviews, err := h.reviewService.ListForSeller(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// UpdateUser applies a partial profile update. Users may only update
// their own profile.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if userID != id {
		writeError(w, http.StatusForbidden, "cannot update another user")
		return
	}

	var update types.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	updated, err := h.userService.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
