package policyretriever

// PolicyRetriever supplies the Rego source evaluated by the OPA decision maker.
type PolicyRetriever interface {
	GetPolicy() (string, error)
}
