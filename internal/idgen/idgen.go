package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers for newly created records.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to the Generator interface.
type Func func() string

// NewID calls f.
func (f Func) NewID() string {
	return f()
}

// NewUUIDGenerator returns a Generator backed by random (version 4) UUIDs.
func NewUUIDGenerator() Generator {
	return Func(uuid.NewString)
}

type sequence struct {
	prefix string
	next   atomic.Uint64
}

func (s *sequence) NewID() string {
	return fmt.Sprintf("%s%d", s.prefix, s.next.Add(1))
}

// NewSequence returns a deterministic Generator yielding prefix1, prefix2, ...
func NewSequence(prefix string) Generator {
	return &sequence{prefix: prefix}
}
