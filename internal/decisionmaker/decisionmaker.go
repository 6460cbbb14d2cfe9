package decisionmaker

import "context"

// DecisionRequest names an API operation: the route template and the lower-cased HTTP method.
type DecisionRequest struct {
	Resource string
	Action   string
}

type DecisionMaker interface {
	MakeDecision(ctx context.Context, req *DecisionRequest) (bool, error)
}
