package opa

import (
	_ "embed"
)

// DefaultQuery is the decision evaluated against DefaultPolicy.
const DefaultQuery = "data.grubdash.operations.allow"

// DefaultPolicy enables every operation the REST API exposes.
//
//go:embed operations.rego
var DefaultPolicy string
