//go:build !casbin

package main

import (
	"log/slog"

	"github.com/CameronXie/grubdash/internal/config"
	"github.com/CameronXie/grubdash/internal/enforcer"

	pdp "github.com/CameronXie/grubdash/internal/decisionmaker/opa"
	prp "github.com/CameronXie/grubdash/internal/policyretriever/opa"
)

// newEnforcer builds an Enforcer evaluating the Rego operation policy, read from POLICY_FILE when
// set and the embedded default otherwise.
func newEnforcer(cfg *config.Config, logger *slog.Logger) (enforcer.Enforcer, error) {
	retriever := prp.NewStaticPolicyRetriever(prp.DefaultPolicy)
	if cfg.PolicyFile != "" {
		retriever = prp.NewFilePolicyRetriever(cfg.PolicyFile)
		if _, err := retriever.GetPolicy(); err != nil {
			return nil, err
		}
	}

	logger.Info("initializing enforcer with OPA", "policy_file", cfg.PolicyFile)

	return enforcer.NewEnforcer(pdp.NewDecisionMaker(retriever, prp.DefaultQuery)), nil
}
