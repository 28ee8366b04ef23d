package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// FavoriteHandler provides HTTP handlers for saved listings.
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	carService      *services.CarService
}

// NewFavoriteHandler constructs a handler with the provided services.
func NewFavoriteHandler(favoriteService *services.FavoriteService, carService *services.CarService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		carService:      carService,
	}
}

// FavoriteRouter registers favorite routes on the given router. All
// routes require authentication.
func FavoriteRouter(
	r chi.Router,
	favoriteService *services.FavoriteService,
	carService *services.CarService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewFavoriteHandler(favoriteService, carService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListFavorites)
	r.Post("/", handler.CreateFavorite)
	r.Delete("/{carID}", handler.DeleteFavorite)
}

// ListFavorites lists the caller's saved listings paired with their
// cars.
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	favorites, err := h.favoriteService.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}

// CreateFavorite saves a listing for the caller. Saving a listing twice
// is rejected.
func (h *FavoriteHandler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.CarID < 1 {
		writeError(w, http.StatusBadRequest, "car_id is required")
		return
	}

	if _, err := h.carService.Get(r.Context(), req.CarID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch car")
		return
	}

	exists, err := h.favoriteService.IsFavorite(r.Context(), userID, req.CarID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check favorite")
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "car already in favorites")
		return
	}

	created, err := h.favoriteService.Create(r.Context(), userID, req.CarID)
	if err != nil {
		// The store enforces uniqueness, so a concurrent save of the
		// same car surfaces here rather than in the check above.
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "car already in favorites")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create favorite")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// DeleteFavorite removes a listing from the caller's favorites.
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	carID, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.favoriteService.Delete(r.Context(), userID, carID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete favorite")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "favorite not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CreateFavoriteRequest struct {
	CarID int `json:"car_id"`
}
