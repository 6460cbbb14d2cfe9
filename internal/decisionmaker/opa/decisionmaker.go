package opa

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/CameronXie/grubdash/internal/decisionmaker"
	"github.com/CameronXie/grubdash/internal/policyretriever"
)

const (
	moduleName = "operations.rego"
)

var errUndefinedDecision = errors.New("query returned no decision")

type decisionMaker struct {
	policyRetriever policyretriever.PolicyRetriever
	query           string
}

// MakeDecision evaluates the operation policy for the requested resource and action.
// The policy is fetched on every call so a retriever may swap it at runtime.
func (d *decisionMaker) MakeDecision(ctx context.Context, req *decisionmaker.DecisionRequest) (bool, error) {
	policy, err := d.policyRetriever.GetPolicy()
	if err != nil {
		return false, fmt.Errorf("failed to get policy: %w", err)
	}

	query, err := rego.New(rego.Module(moduleName, policy), rego.Query(d.query)).PrepareForEval(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to prepare query: %w", err)
	}

	result, err := query.Eval(ctx, rego.EvalInput(map[string]any{
		"resource": req.Resource,
		"action":   req.Action,
	}))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate query: %w", err)
	}

	if len(result) == 0 || len(result[0].Expressions) == 0 {
		return false, fmt.Errorf("failed to evaluate query: %w", errUndefinedDecision)
	}

	allowed, ok := result[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("failed to evaluate query: unexpected result %v", result[0].Expressions[0].Value)
	}

	return allowed, nil
}

// NewDecisionMaker initializes a DecisionMaker with the provided PolicyRetriever and Rego query.
func NewDecisionMaker(policyRetriever policyretriever.PolicyRetriever, query string) decisionmaker.DecisionMaker {
	return &decisionMaker{
		policyRetriever: policyRetriever,
		query:           query,
	}
}
