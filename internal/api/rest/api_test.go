package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronXie/grubdash/internal/api/rest/handlers"
	"github.com/CameronXie/grubdash/internal/api/rest/middlewares"
	"github.com/CameronXie/grubdash/internal/decisionmaker/opa"
	"github.com/CameronXie/grubdash/internal/enforcer"
	"github.com/CameronXie/grubdash/internal/idgen"
	policyopa "github.com/CameronXie/grubdash/internal/policyretriever/opa"
	"github.com/CameronXie/grubdash/internal/repository/memory"
	"github.com/CameronXie/grubdash/internal/service"
)

const (
	tacoBody  = `{"data":{"name":"Taco","description":"Spicy","price":5,"image_url":"x.png"}}`
	orderBody = `{"data":{"deliverTo":"1 Main St","mobileNumber":"555-1234","dishes":[{"id":"d1","quantity":2}]}}`
)

func newTestRouter(t *testing.T, policy string) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	metrics, err := middlewares.NewMetricsMiddleware(registry)
	require.NoError(t, err)

	dishService := service.NewDishService(memory.NewDishRepository(), idgen.NewSequence("d"))
	orderService := service.NewOrderService(memory.NewOrderRepository(), idgen.NewSequence("o"), logger)
	decisionMaker := opa.NewDecisionMaker(policyopa.NewStaticPolicyRetriever(policy), policyopa.DefaultQuery)

	return NewRouter(&RouterConfig{
		DishHandler:     handlers.NewDishHandler(dishService, logger),
		OrderHandler:    handlers.NewOrderHandler(orderService, logger),
		OperationPolicy: middlewares.NewOperationPolicyMiddleware(enforcer.NewEnforcer(decisionMaker), logger),
		Metrics:         metrics,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestRouter_DishLifecycle(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)

	created := do(router, http.MethodPost, "/dishes", tacoBody)
	require.Equal(t, http.StatusCreated, created.Code)
	dish := decodeData(t, created)
	assert.NotEmpty(t, dish["id"])
	assert.Equal(t, "Taco", dish["name"])
	assert.Equal(t, "Spicy", dish["description"])
	assert.Equal(t, float64(5), dish["price"])
	assert.Equal(t, "x.png", dish["image_url"])

	second := decodeData(t, do(router, http.MethodPost, "/dishes", tacoBody))
	assert.NotEqual(t, dish["id"], second["id"])

	id := dish["id"].(string)
	read := do(router, http.MethodGet, "/dishes/"+id, "")
	require.Equal(t, http.StatusOK, read.Code)
	assert.Equal(t, dish, decodeData(t, read))

	updated := do(router, http.MethodPut, "/dishes/"+id,
		`{"data":{"id":"`+id+`","name":"Burrito","description":"Large","price":9,"image_url":"b.png"}}`)
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Equal(t, "Burrito", decodeData(t, updated)["name"])
	assert.Equal(t, "Burrito", decodeData(t, do(router, http.MethodGet, "/dishes/"+id, ""))["name"])

	list := do(router, http.MethodGet, "/dishes", "")
	require.Equal(t, http.StatusOK, list.Code)
	var dishes struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &dishes))
	assert.Len(t, dishes.Data, 2)
}

func TestRouter_DishValidation(t *testing.T) {
	cases := map[string]struct {
		body            string
		expectedMessage string
	}{
		"Zero Price": {
			body:            `{"data":{"name":"Taco","description":"Spicy","price":0,"image_url":"x.png"}}`,
			expectedMessage: "Dish must have a price that is an integer greater than 0",
		},
		"Negative Price": {
			body:            `{"data":{"name":"Taco","description":"Spicy","price":-1,"image_url":"x.png"}}`,
			expectedMessage: "Dish must have a price that is an integer greater than 0",
		},
		"String Price": {
			body:            `{"data":{"name":"Taco","description":"Spicy","price":"5","image_url":"x.png"}}`,
			expectedMessage: "Dish must have a price that is an integer greater than 0",
		},
		"Fractional Price": {
			body:            `{"data":{"name":"Taco","description":"Spicy","price":5.5,"image_url":"x.png"}}`,
			expectedMessage: "Dish must have a price that is an integer greater than 0",
		},
		"Missing Name Reported First": {
			body:            `{"data":{"price":0}}`,
			expectedMessage: "Dish must include a name",
		},
		"Empty Body": {
			expectedMessage: "Dish must include a name",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(t, policyopa.DefaultPolicy)

			w := do(router, http.MethodPost, "/dishes", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.expectedMessage+`"}`, w.Body.String())
		})
	}
}

func TestRouter_DishUpdateIDMismatch(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)
	id := decodeData(t, do(router, http.MethodPost, "/dishes", tacoBody))["id"].(string)

	w := do(router, http.MethodPut, "/dishes/"+id,
		`{"data":{"id":"other","name":"Burrito","description":"Large","price":9,"image_url":"b.png"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Dish id does not match route id. Dish: other, Route: `+id+`"}`, w.Body.String())
	assert.Equal(t, "Taco", decodeData(t, do(router, http.MethodGet, "/dishes/"+id, ""))["name"])
}

func TestRouter_MissingResources(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)

	cases := map[string]struct {
		method       string
		path         string
		body         string
		expectedBody string
	}{
		"Read Missing Dish": {
			method:       http.MethodGet,
			path:         "/dishes/42",
			expectedBody: `{"error":"Dish not found: 42"}`,
		},
		"Update Missing Dish": {
			method:       http.MethodPut,
			path:         "/dishes/42",
			body:         tacoBody,
			expectedBody: `{"error":"Dish not found: 42"}`,
		},
		"Read Missing Order": {
			method:       http.MethodGet,
			path:         "/orders/42",
			expectedBody: `{"error":"Order not found: 42"}`,
		},
		"Delete Missing Order": {
			method:       http.MethodDelete,
			path:         "/orders/42",
			expectedBody: `{"error":"Order not found: 42"}`,
		},
		"Unknown Path": {
			method:       http.MethodGet,
			path:         "/drinks",
			expectedBody: `{"error":"Path not found: /drinks"}`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(router, tc.method, tc.path, tc.body)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)

	cases := map[string]struct {
		method string
		path   string
	}{
		"Delete Dishes":      {method: http.MethodDelete, path: "/dishes"},
		"Delete Dish":        {method: http.MethodDelete, path: "/dishes/1"},
		"Patch Orders":       {method: http.MethodPatch, path: "/orders"},
		"Post Order":         {method: http.MethodPost, path: "/orders/1"},
		"Put Order List":     {method: http.MethodPut, path: "/orders"},
		"Patch Single Order": {method: http.MethodPatch, path: "/orders/1"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(router, tc.method, tc.path, "")

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.method+` not allowed for `+tc.path+`"}`, w.Body.String())
		})
	}
}

func TestRouter_OperationDisabledByPolicy(t *testing.T) {
	policy := strings.Replace(policyopa.DefaultPolicy, `{"get", "put", "delete"}`, `{"get", "put"}`, 1)
	router := newTestRouter(t, policy)

	created := do(router, http.MethodPost, "/orders", orderBody)
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeData(t, created)["id"].(string)

	w := do(router, http.MethodDelete, "/orders/"+id, "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"DELETE not allowed for /orders/`+id+`"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/orders/"+id, "").Code)
}

func TestRouter_OrderLifecycle(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)

	created := do(router, http.MethodPost, "/orders", orderBody)
	require.Equal(t, http.StatusCreated, created.Code)
	order := decodeData(t, created)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "1 Main St", order["deliverTo"])
	id := order["id"].(string)

	assert.Equal(t, order, decodeData(t, do(router, http.MethodGet, "/orders/"+id, "")))

	updated := do(router, http.MethodPut, "/orders/"+id,
		`{"data":{"id":"`+id+`","deliverTo":"2 High St","mobileNumber":"555-9999","status":"out-for-delivery",`+
			`"dishes":[{"id":"d1","quantity":3}]}}`)
	require.Equal(t, http.StatusOK, updated.Code)

	read := decodeData(t, do(router, http.MethodGet, "/orders/"+id, ""))
	assert.Equal(t, "2 High St", read["deliverTo"])
	assert.Equal(t, "out-for-delivery", read["status"])
	assert.Equal(t, id, read["id"])
}

func TestRouter_OrderValidation(t *testing.T) {
	cases := map[string]struct {
		body            string
		expectedMessage string
	}{
		"Empty Dishes": {
			body:            `{"data":{"deliverTo":"1 Main St","mobileNumber":"555-1234","dishes":[]}}`,
			expectedMessage: "Order must include at least one dish",
		},
		"Zero Quantity Names Index": {
			body: `{"data":{"deliverTo":"1 Main St","mobileNumber":"555-1234",` +
				`"dishes":[{"id":"d1","quantity":1},{"id":"d2","quantity":0}]}}`,
			expectedMessage: "Dish 1 must have a quantity that is an integer greater than 0",
		},
		"Unknown Status": {
			body: `{"data":{"deliverTo":"1 Main St","mobileNumber":"555-1234","status":"lost",` +
				`"dishes":[{"id":"d1","quantity":1}]}}`,
			expectedMessage: "Order must have a valid status of pending, preparing, out-for-delivery, delivered",
		},
		"Malformed Json": {
			body:            `{"data":`,
			expectedMessage: "invalid request body",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(t, policyopa.DefaultPolicy)

			w := do(router, http.MethodPost, "/orders", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.expectedMessage+`"}`, w.Body.String())
		})
	}
}

func TestRouter_OrderDelete(t *testing.T) {
	cases := map[string]struct {
		status         string
		expectedStatus int
		expectedBody   string
		expectRemoved  bool
	}{
		"Pending Order Is Removed": {
			status:         "pending",
			expectedStatus: http.StatusNoContent,
			expectRemoved:  true,
		},
		"Preparing Order Is Kept": {
			status:         "preparing",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"An order cannot be deleted unless it is pending"}`,
		},
		"Delivered Order Is Kept": {
			status:         "delivered",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"An order cannot be deleted unless it is pending"}`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(t, policyopa.DefaultPolicy)
			created := do(router, http.MethodPost, "/orders",
				`{"data":{"deliverTo":"1 Main St","mobileNumber":"555-1234","status":"`+tc.status+`",`+
					`"dishes":[{"id":"d1","quantity":1}]}}`)
			require.Equal(t, http.StatusCreated, created.Code)
			id := decodeData(t, created)["id"].(string)

			w := do(router, http.MethodDelete, "/orders/"+id, "")

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedBody == "" {
				assert.Empty(t, w.Body.String())
			} else {
				assert.JSONEq(t, tc.expectedBody, w.Body.String())
			}

			read := do(router, http.MethodGet, "/orders/"+id, "")
			if tc.expectRemoved {
				assert.Equal(t, http.StatusNotFound, read.Code)
			} else {
				assert.Equal(t, http.StatusOK, read.Code)
			}
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, policyopa.DefaultPolicy)

	health := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, health.Body.String())

	do(router, http.MethodGet, "/dishes", "")
	metrics := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `http_requests_total{method="GET",route="/dishes",status="200"} 1`)
}

func TestOperationPolicies(t *testing.T) {
	assert.Equal(t, [][]string{
		{"/dishes", "get"},
		{"/dishes", "post"},
		{"/dishes/{dishid}", "get"},
		{"/dishes/{dishid}", "put"},
		{"/orders", "get"},
		{"/orders", "post"},
		{"/orders/{orderid}", "get"},
		{"/orders/{orderid}", "put"},
		{"/orders/{orderid}", "delete"},
	}, OperationPolicies())
}
