package enforcer

import (
	"context"
	"strings"

	"github.com/CameronXie/grubdash/internal/decisionmaker"
)

type Enforcer interface {
	Enforce(ctx context.Context, req *OperationRequest) (bool, error)
}

// OperationRequest identifies the operation a request is about to perform.
type OperationRequest struct {
	Resource string
	Action   string
}

type enforcer struct {
	decisionMaker decisionmaker.DecisionMaker
}

func (e *enforcer) Enforce(ctx context.Context, req *OperationRequest) (bool, error) {
	return e.decisionMaker.MakeDecision(
		ctx,
		&decisionmaker.DecisionRequest{
			Resource: strings.ToLower(req.Resource),
			Action:   strings.ToLower(req.Action),
		},
	)
}

func NewEnforcer(decisionMaker decisionmaker.DecisionMaker) Enforcer {
	return &enforcer{decisionMaker: decisionMaker}
}
