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

const (
	minRating = 1
	maxRating = 5
)

// ReviewHandler provides HTTP handlers for seller reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	carService    *services.CarService
}

// NewReviewHandler constructs a handler with the provided services.
func NewReviewHandler(reviewService *services.ReviewService, carService *services.CarService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		carService:    carService,
	}
}

// ReviewRouter registers review routes on the given router.
func ReviewRouter(
	r chi.Router,
	reviewService *services.ReviewService,
	carService *services.CarService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewReviewHandler(reviewService, carService)

	r.Get("/", handler.ListReviews)
	r.With(authMiddleware).Post("/", handler.CreateReview)
	r.Get("/{reviewID}", handler.GetReview)
}

// ListReviews lists every review, newest first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "reviewID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "review not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch review")
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// CreateReview records a review of the seller behind a listing. The
// caller becomes the reviewer.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Comment = strings.TrimSpace(req.Comment)
	if req.CarID < 1 {
		writeError(w, http.StatusBadRequest, "car_id is required")
		return
	}
	if req.Rating < minRating || req.Rating > maxRating {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	car, err := h.carService.Get(r.Context(), req.CarID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch car")
		return
	}

	created, err := h.reviewService.Create(r.Context(), types.Review{
		UserID:     car.UserID,
		ReviewerID: reviewerID,
		CarID:      car.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create review")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type CreateReviewRequest struct {
	CarID   int    `json:"car_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
