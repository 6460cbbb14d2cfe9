package service

// ConflictError is returned when a request is well formed but the current state of the resource
// does not allow it.
type ConflictError struct {
	Message string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}
