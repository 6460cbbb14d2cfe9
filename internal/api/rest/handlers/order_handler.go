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
	OrderIDParam = "orderId"
)

// OrderService defines the order lifecycle operations used by OrderHandler
type OrderService interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, in *service.OrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, routeID string, in *service.OrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orders OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(orders OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// OrderExists looks up the order named by the route and attaches it to the request context.
// Unknown orders end the request with 404.
func (h *OrderHandler) OrderExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)[OrderIDParam])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withOrder(r.Context(), order)))
	})
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, orders)
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[service.OrderInput](r)
	if err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusCreated, order)
}

// ReadOrder handles GET /orders/{orderId}
func (h *OrderHandler) ReadOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := OrderFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "order missing from request context")
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, order)
}

// UpdateOrder handles PUT /orders/{orderId}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	in, err := decodeData[service.OrderInput](r)
	if err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	order, err := h.orders.UpdateOrder(r.Context(), mux.Vars(r)[OrderIDParam], in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONDataResponse(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/{orderId}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := OrderFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "order missing from request context")
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), order.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.NoContent(w)
}
