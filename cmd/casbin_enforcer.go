//go:build casbin

package main

import (
	"log/slog"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	_ "github.com/go-sql-driver/mysql"

	"github.com/CameronXie/grubdash/internal/api/rest"
	"github.com/CameronXie/grubdash/internal/config"
	"github.com/CameronXie/grubdash/internal/decisionmaker/casbin"
	"github.com/CameronXie/grubdash/internal/enforcer"
)

// getConfig returns the Casbin model matching an operation on its route template and method.
func getConfig() string {
	return `
[request_definition]
r = obj, act

[policy_definition]
p = obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.obj == p.obj && r.act == p.act
`
}

// newEnforcer builds an Enforcer backed by operation rules stored in MySQL. Rules for the routes
// the API serves are seeded when missing.
func newEnforcer(cfg *config.Config, logger *slog.Logger) (enforcer.Enforcer, error) {
	logger.Info("initializing enforcer with Casbin", "mysql_host", cfg.Mysql.Host)

	adapter, err := gormadapter.NewAdapter("mysql", cfg.Mysql.DSN())
	if err != nil {
		return nil, err
	}

	decisionMaker, err := casbin.NewDecisionMaker(getConfig(), adapter, rest.OperationPolicies()...)
	if err != nil {
		return nil, err
	}

	return enforcer.NewEnforcer(decisionMaker), nil
}
