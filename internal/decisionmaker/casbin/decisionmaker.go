package casbin

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"

	"github.com/CameronXie/grubdash/internal/decisionmaker"
)

type decisionMaker struct {
	enforcer casbin.IEnforcer
}

// MakeDecision reloads the stored policy and checks whether the resource and action pair is enabled.
func (d *decisionMaker) MakeDecision(_ context.Context, req *decisionmaker.DecisionRequest) (bool, error) {
	err := d.enforcer.LoadPolicy()
	if err != nil {
		return false, err
	}

	return d.enforcer.Enforce(req.Resource, req.Action)
}

// NewDecisionMaker creates a DecisionMaker from the Casbin model config and policy adapter.
// Any defaults are written through the adapter; rules already stored are left untouched.
func NewDecisionMaker(config string, policyRepo persist.Adapter, defaults ...[]string) (decisionmaker.DecisionMaker, error) {
	m, err := model.NewModelFromString(config)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, policyRepo)
	if err != nil {
		return nil, err
	}

	if err := seedPolicies(enforcer, defaults); err != nil {
		return nil, err
	}

	return &decisionMaker{enforcer: enforcer}, nil
}

// seedPolicies adds each rule unless it is already stored; AddPolicy reports existing rules as unchanged.
func seedPolicies(enforcer casbin.IEnforcer, policies [][]string) error {
	for _, p := range policies {
		rule := make([]any, len(p))
		for i, v := range p {
			rule[i] = v
		}

		if _, err := enforcer.AddPolicy(rule...); err != nil {
			return fmt.Errorf("add policy %v: %w", p, err)
		}
	}

	return nil
}
