package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Rule checks a single constraint on v and returns a *ValidationError when it does not hold.
type Rule[T any] func(v T) error

// Run applies rules in order and stops at the first failure.
func Run[T any](v T, rules ...Rule[T]) error {
	for _, rule := range rules {
		if err := rule(v); err != nil {
			return err
		}
	}

	return nil
}

// Required fails when the extracted text is empty.
func Required[T any](field, message string, get func(T) string) Rule[T] {
	return func(v T) error {
		if validate.Var(get(v), "required") != nil {
			return &ValidationError{Field: field, Message: message}
		}

		return nil
	}
}

// PositiveInteger fails unless the extracted value is a whole number greater than zero.
func PositiveInteger[T any](field, message string, get func(T) Integer) Rule[T] {
	return func(v T) error {
		n, ok := get(v).Value()
		if !ok || validate.Var(n, "gt=0") != nil {
			return &ValidationError{Field: field, Message: message}
		}

		return nil
	}
}

// OneOf fails unless the extracted text, lower-cased, is one of allowed.
func OneOf[T any](field, message string, allowed []string, get func(T) string) Rule[T] {
	tag := "oneof=" + strings.Join(allowed, " ")
	return func(v T) error {
		if validate.Var(strings.ToLower(get(v)), tag) != nil {
			return &ValidationError{Field: field, Message: message}
		}

		return nil
	}
}

// Each applies rule to every element returned by get, passing the element index so the rule can
// name it. The first failing element stops the iteration.
func Each[T, E any](get func(T) []E, rule func(index int, elem E) error) Rule[T] {
	return func(v T) error {
		for i, elem := range get(v) {
			if err := rule(i, elem); err != nil {
				return err
			}
		}

		return nil
	}
}

// NonEmpty fails when the extracted list has no elements.
func NonEmpty[T, E any](field, message string, get func(T) []E) Rule[T] {
	return func(v T) error {
		if validate.Var(get(v), "min=1") != nil {
			return &ValidationError{Field: field, Message: message}
		}

		return nil
	}
}
