package rest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/CameronXie/grubdash/internal/api/rest/handlers"
	"github.com/CameronXie/grubdash/internal/api/rest/middlewares"
)

const (
	DishesPath  = "/dishes"
	DishPath    = "/dishes/{" + handlers.DishIDParam + "}"
	OrdersPath  = "/orders"
	OrderPath   = "/orders/{" + handlers.OrderIDParam + "}"
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// Operations lists every route template of the resource API with the methods it serves.
var Operations = map[string][]string{
	DishesPath: {http.MethodGet, http.MethodPost},
	DishPath:   {http.MethodGet, http.MethodPut},
	OrdersPath: {http.MethodGet, http.MethodPost},
	OrderPath:  {http.MethodGet, http.MethodPut, http.MethodDelete},
}

// OperationPolicies returns Operations as lower-cased (resource, action) pairs, the form the
// enforcer hands to decision makers.
func OperationPolicies() [][]string {
	paths := make([]string, 0, len(Operations))
	for path := range Operations {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var policies [][]string
	for _, path := range paths {
		for _, method := range Operations[path] {
			policies = append(policies, []string{strings.ToLower(path), strings.ToLower(method)})
		}
	}

	return policies
}

type RouterConfig struct {
	DishHandler     *handlers.DishHandler
	OrderHandler    *handlers.OrderHandler
	OperationPolicy middlewares.Middleware
	Metrics         middlewares.Middleware
	MetricsHandler  http.Handler
}

// NewRouter initializes a mux router with the resource, health and metrics routes defined by cfg.
// Resource routes pass through the operation policy and their existence checks before the handler.
func NewRouter(cfg *RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Handle)
	}

	router.HandleFunc(HealthPath, handlers.HealthCheck).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		router.Handle(MetricsPath, cfg.MetricsHandler).Methods(http.MethodGet)
	}

	api := func(h http.Handler) http.Handler {
		return cfg.OperationPolicy.Handle(h)
	}

	dishes := cfg.DishHandler
	router.Handle(DishesPath, api(http.HandlerFunc(dishes.ListDishes))).Methods(http.MethodGet)
	router.Handle(DishesPath, api(http.HandlerFunc(dishes.CreateDish))).Methods(http.MethodPost)
	router.Handle(DishPath, api(dishes.DishExists(http.HandlerFunc(dishes.ReadDish)))).Methods(http.MethodGet)
	router.Handle(DishPath, api(dishes.DishExists(http.HandlerFunc(dishes.UpdateDish)))).Methods(http.MethodPut)

	orders := cfg.OrderHandler
	router.Handle(OrdersPath, api(http.HandlerFunc(orders.ListOrders))).Methods(http.MethodGet)
	router.Handle(OrdersPath, api(http.HandlerFunc(orders.CreateOrder))).Methods(http.MethodPost)
	router.Handle(OrderPath, api(orders.OrderExists(http.HandlerFunc(orders.ReadOrder)))).Methods(http.MethodGet)
	router.Handle(OrderPath, api(orders.OrderExists(http.HandlerFunc(orders.UpdateOrder)))).Methods(http.MethodPut)
	router.Handle(OrderPath, api(orders.OrderExists(http.HandlerFunc(orders.DeleteOrder)))).Methods(http.MethodDelete)

	return router
}
