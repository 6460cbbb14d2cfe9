package validation

import (
	"encoding/json"
	"math"
)

// maxExactInteger is the largest whole number a JSON number can carry without loss (2^53).
const maxExactInteger = 1 << 53

// Integer holds a JSON value that is only usable when it is a whole number. Decoding never
// fails: strings, booleans, fractions and null leave the value invalid so the caller can report
// a field specific message instead of a generic decoding error.
type Integer struct {
	value int
	valid bool
}

// NewInteger returns a valid Integer holding n.
func NewInteger(n int) Integer {
	return Integer{value: n, valid: true}
}

// Value returns the decoded number and whether it was a whole number.
func (i Integer) Value() (int, bool) {
	return i.value, i.valid
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Integer) UnmarshalJSON(data []byte) error {
	*i = Integer{}
	if len(data) == 0 || data[0] == '"' || string(data) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}

	if f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
		return nil
	}

	*i = NewInteger(int(f))
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid values encode as null.
func (i Integer) MarshalJSON() ([]byte, error) {
	if !i.valid {
		return []byte("null"), nil
	}

	return json.Marshal(i.value)
}
