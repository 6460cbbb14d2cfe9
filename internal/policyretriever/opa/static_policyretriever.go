package opa

import (
	"errors"
	"strings"

	"github.com/CameronXie/grubdash/internal/policyretriever"
)

var ErrEmptyPolicy = errors.New("operation policy is empty")

type staticPolicyRetriever struct {
	policy string
}

// GetPolicy returns the Rego module compiled into the binary.
func (p *staticPolicyRetriever) GetPolicy() (string, error) {
	if strings.TrimSpace(p.policy) == "" {
		return "", ErrEmptyPolicy
	}

	return p.policy, nil
}

// NewStaticPolicyRetriever creates a PolicyRetriever serving a fixed Rego module.
func NewStaticPolicyRetriever(policy string) policyretriever.PolicyRetriever {
	return &staticPolicyRetriever{
		policy: policy,
	}
}
