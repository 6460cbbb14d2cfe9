package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/CameronXie/grubdash/internal/api/rest/response"
	"github.com/CameronXie/grubdash/internal/enforcer"
)

const (
	internalServerErrorMessage = "internal server error"
)

// OperationPolicyMiddleware rejects operations the configured policy has not enabled.
// It must run inside the router so the matched route template is available.
type OperationPolicyMiddleware struct {
	enforcer enforcer.Enforcer
	logger   *slog.Logger
}

// Handle answers 405 for disabled operations and 500 when the policy cannot be evaluated.
func (m *OperationPolicyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := routeTemplate(r)
		ok, err := m.enforcer.Enforce(
			r.Context(),
			&enforcer.OperationRequest{
				Resource: resource,
				Action:   r.Method,
			},
		)

		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to enforce operation policy", "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
			return
		}

		if !ok {
			m.logger.WarnContext(r.Context(), "operation disabled by policy", "resource", resource, "action", r.Method)
			response.JSONErrorResponse(
				w,
				http.StatusMethodNotAllowed,
				fmt.Sprintf("%s not allowed for %s", r.Method, r.URL.Path),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewOperationPolicyMiddleware returns a Middleware enforcing the operation policy through e.
func NewOperationPolicyMiddleware(e enforcer.Enforcer, logger *slog.Logger) Middleware {
	return &OperationPolicyMiddleware{
		enforcer: e,
		logger:   logger,
	}
}
