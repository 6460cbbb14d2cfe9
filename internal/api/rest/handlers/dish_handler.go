package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CameronXie/grubdash/internal/api/rest/response"
	"github.com/CameronXie/grubdash/internal/domain"
	"github.com/CameronXie/grubdash/internal/service"
)

const (
	DishIDParam = "dishId"
)

// DishService defines the dish lifecycle operations used by DishHandler
type DishService interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	CreateDish(ctx context.Context, in *service.DishInput) (*domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	UpdateDish(ctx context.Context, routeID string, in *service.DishInput) (*domain.Dish, error)
}

// DishHandler handles HTTP requests for dish operations
type DishHandler struct {
	dishes DishService
	logger *slog.Logger
}

// NewDishHandler creates a new DishHandler instance
func NewDishHandler(dishes DishService, logger *slog.Logger) *DishHandler {
	return &DishHandler{
		dishes: dishes,
		logger: logger,
	}
}

// DishExists looks up the dish named by the route and attaches it to the request context.
// Unknown dishes end the request with 404.
func (h *DishHandler) DishExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dish, err := h.dishes.GetDish(r.Context(), mux.Vars(r)[DishIDParam])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withDish(r.Context(), dish)))
	})
}

// ListDishes handles GET /dishes
func (h *DishHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.dishes.ListDishes(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, dishes)
}

// CreateDish handles POST /dishes
func (h *DishHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[service.DishInput](r)
	if err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	dish, err := h.dishes.CreateDish(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusCreated, dish)
}

// ReadDish handles GET /dishes/{dishId}
func (h *DishHandler) ReadDish(w http.ResponseWriter, r *http.Request) {
	dish, ok := DishFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "dish missing from request context")
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, dish)
}

// UpdateDish handles PUT /dishes/{dishId}
func (h *DishHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[service.DishInput](r)
	if err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	dish, err := h.dishes.UpdateDish(r.Context(), mux.Vars(r)[DishIDParam], in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, dish)
}
