package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/CameronXie/grubdash/internal/api/rest/response"
	"github.com/CameronXie/grubdash/internal/domain"
	"github.com/CameronXie/grubdash/internal/repository"
	"github.com/CameronXie/grubdash/internal/service"
	"github.com/CameronXie/grubdash/internal/validation"
)

const (
	invalidRequestBodyMessage  = "invalid request body"
	internalServerErrorMessage = "internal server error"
)

type contextKey string

const (
	dishContextKey  contextKey = "dish"
	orderContextKey contextKey = "order"
)

// dataRequest is the {"data": ...} envelope every request body is wrapped in.
type dataRequest[T any] struct {
	Data T `json:"data"`
}

// decodeData reads the enveloped payload. An empty body yields a zero payload, leaving field
// validation to report what is missing.
func decodeData[T any](r *http.Request) (*T, error) {
	req := new(dataRequest[T])
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &req.Data, nil
}

// writeError maps service and repository errors onto client responses.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *validation.ValidationError
	var notFoundErr *repository.NotFoundError
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &validationErr):
		response.JSONErrorResponse(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		logger.WarnContext(r.Context(), "resource not found", "resource", notFoundErr.Resource, "id", notFoundErr.Value)
		response.JSONErrorResponse(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		response.JSONErrorResponse(w, http.StatusBadRequest, conflictErr.Message)
	default:
		logger.ErrorContext(r.Context(), "failed to handle request", "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
	}
}

func withDish(ctx context.Context, dish *domain.Dish) context.Context {
	return context.WithValue(ctx, dishContextKey, dish)
}

// DishFromContext returns the dish attached by DishHandler.DishExists.
func DishFromContext(ctx context.Context) (*domain.Dish, bool) {
	dish, ok := ctx.Value(dishContextKey).(*domain.Dish)
	return dish, ok
}

func withOrder(ctx context.Context, order *domain.Order) context.Context {
	return context.WithValue(ctx, orderContextKey, order)
}

// OrderFromContext returns the order attached by OrderHandler.OrderExists.
func OrderFromContext(ctx context.Context) (*domain.Order, bool) {
	order, ok := ctx.Value(orderContextKey).(*domain.Order)
	return order, ok
}

// NotFound answers requests for paths no route matches.
func NotFound(w http.ResponseWriter, r *http.Request) {
	response.JSONErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Path not found: %s", r.URL.Path))
}

// MethodNotAllowed answers requests whose path matches a route but whose method does not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.JSONErrorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("%s not allowed for %s", r.Method, r.URL.Path))
}

// HealthCheck returns a basic health status.
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}
