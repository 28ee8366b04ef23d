package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 16 << 20
	formFieldImage     = "image"
)

// CarHandler provides HTTP handlers for car listings.
type CarHandler struct {
	carService    *services.CarService
	reviewService *services.ReviewService
}

// NewCarHandler constructs a handler with the provided services.
func NewCarHandler(carService *services.CarService, reviewService *services.ReviewService) *CarHandler {
	return &CarHandler{
		carService:    carService,
		reviewService: reviewService,
	}
}

// CarRouter registers listing routes on the given router.
func CarRouter(
	r chi.Router,
	carService *services.CarService,
	reviewService *services.ReviewService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCarHandler(carService, reviewService)

	r.Get("/", handler.SearchCars)
	r.With(authMiddleware).Post("/", handler.CreateCar)
	r.Route("/{carID}", func(r chi.Router) {
		r.Get("/", handler.GetCar)
		r.Get("/reviews", handler.ListCarReviews)
		r.With(authMiddleware).Put("/", handler.UpdateCar)
		r.With(authMiddleware).Delete("/", handler.DeleteCar)
		r.With(authMiddleware).Post("/images", handler.UploadCarImage)
	})
}

// SearchCars lists cars matching the query parameters. Exact-match
// fields, numeric range bounds, and required features all narrow the
// result; with no parameters it returns every listing newest first.
func (h *CarHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	criteria := parseSearchCriteria(r)

	cars, err := h.carService.Search(r.Context(), criteria)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search cars")
		return
	}

	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	car, err := h.carService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch car")
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CarUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	car := req.toCar()
	car.UserID = userID
	created, err := h.carService.Create(r.Context(), car)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create car")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.loadOwnedCar(w, r, id); !ok {
		return
	}

	var update types.CarUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := validateCarUpdate(update); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.carService.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update car")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.loadOwnedCar(w, r, id); !ok {
		return
	}

	deleted, err := h.carService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete car")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadCarImage stores an image for the listing and returns the
// updated car with the new image URL appended.
func (h *CarHandler) UploadCarImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.loadOwnedCar(w, r, id); !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	image, err := parseImageFile(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.carService.AddImage(r.Context(), id, image.Filename, image.Data, image.ContentType)
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			writeError(w, http.StatusBadRequest, "image uploads are not enabled")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// ListCarReviews lists reviews attached to the listing.
func (h *CarHandler) ListCarReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.carService.Get(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch car")
		return
	}

	reviews, err := h.reviewService.ListForCar(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// loadOwnedCar fetches the car and checks that the authenticated user
// owns it, writing the error response itself when either fails.
func (h *CarHandler) loadOwnedCar(w http.ResponseWriter, r *http.Request, id int) (types.Car, bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return types.Car{}, false
	}

	car, err := h.carService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return types.Car{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch car")
		return types.Car{}, false
	}

	if car.UserID != userID {
		writeError(w, http.StatusForbidden, "not the owner of this car")
		return types.Car{}, false
	}
	return car, true
}

// CarUpsertRequest represents the JSON payload for creating a listing.
type CarUpsertRequest struct {
	Title        string   `json:"title"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        int      `json:"price"`
	Mileage      int      `json:"mileage"`
	Condition    string   `json:"condition"`
	Fuel         string   `json:"fuel"`
	Transmission string   `json:"transmission"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Location     string   `json:"location"`
	Images       []string `json:"images"`
}

func (req CarUpsertRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(req.Make) == "" {
		return errors.New("make is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return errors.New("model is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return errors.New("description is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return errors.New("location is required")
	}
	if req.Year < 1 {
		return errors.New("invalid year")
	}
	if req.Price < 0 {
		return errors.New("invalid price")
	}
	if req.Mileage < 0 {
		return errors.New("invalid mileage")
	}
	if !types.Condition(req.Condition).Valid() {
		return errors.New("invalid condition")
	}
	if !types.Fuel(req.Fuel).Valid() {
		return errors.New("invalid fuel")
	}
	if !types.Transmission(req.Transmission).Valid() {
		return errors.New("invalid transmission")
	}
	return nil
}

func (req CarUpsertRequest) toCar() types.Car {
	features := req.Features
	if features == nil {
		features = []string{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	return types.Car{
		Title:        strings.TrimSpace(req.Title),
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Condition:    types.Condition(req.Condition),
		Fuel:         types.Fuel(req.Fuel),
		Transmission: types.Transmission(req.Transmission),
		Description:  strings.TrimSpace(req.Description),
		Features:     features,
		Location:     strings.TrimSpace(req.Location),
		Images:       images,
	}
}

func validateCarUpdate(update types.CarUpdate) error {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if update.Make != nil && strings.TrimSpace(*update.Make) == "" {
		return errors.New("make cannot be empty")
	}
	if update.Model != nil && strings.TrimSpace(*update.Model) == "" {
		return errors.New("model cannot be empty")
	}
	if update.Year != nil && *update.Year < 1 {
		return errors.New("invalid year")
	}
	if update.Price != nil && *update.Price < 0 {
		return errors.New("invalid price")
	}
	if update.Mileage != nil && *update.Mileage < 0 {
		return errors.New("invalid mileage")
	}
	if update.Condition != nil && !update.Condition.Valid() {
		return errors.New("invalid condition")
	}
	if update.Fuel != nil && !update.Fuel.Valid() {
		return errors.New("invalid fuel")
	}
	if update.Transmission != nil && !update.Transmission.Valid() {
		return errors.New("invalid transmission")
	}
	return nil
}

// parseSearchCriteria reads the search surface from query parameters.
// Numeric bounds that fail to parse are ignored rather than rejected.
func parseSearchCriteria(r *http.Request) types.CarSearchCriteria {
	q := r.URL.Query()

	criteria := types.CarSearchCriteria{
		Make:         strings.TrimSpace(q.Get("make")),
		Model:        strings.TrimSpace(q.Get("model")),
		Condition:    strings.TrimSpace(q.Get("condition")),
		Fuel:         strings.TrimSpace(q.Get("fuel")),
		Transmission: strings.TrimSpace(q.Get("transmission")),

		MinPrice:   parseOptionalBound(r, "minPrice"),
		MaxPrice:   parseOptionalBound(r, "maxPrice"),
		MinYear:    parseOptionalBound(r, "minYear"),
		MaxYear:    parseOptionalBound(r, "maxYear"),
		MinMileage: parseOptionalBound(r, "minMileage"),
		MaxMileage: parseOptionalBound(r, "maxMileage"),
	}

	for _, raw := range q["features"] {
		for _, part := range strings.Split(raw, ",") {
			if feature := strings.TrimSpace(part); feature != "" {
				criteria.Features = append(criteria.Features, feature)
			}
		}
	}
	return criteria
}

// ImageFile represents an uploaded listing image.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func parseImageFile(form *multipart.Form) (ImageFile, error) {
	if form == nil {
		return ImageFile{}, errors.New("missing form data")
	}

	files := form.File[formFieldImage]
	if len(files) == 0 {
		return ImageFile{}, errors.New("image file is required")
	}
	if len(files) > 1 {
		return ImageFile{}, errors.New("only one image file is allowed")
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return ImageFile{}, fmt.Errorf("failed to read image file: %w", err)
	}

	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return ImageFile{}, err
	}

	return ImageFile{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
