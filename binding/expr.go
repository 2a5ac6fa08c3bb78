package binding

import "fmt"

//go:generate go run ../cmd/codegen --count 4

// ComputeFunc is the untyped form of Expression.Compute.
type ComputeFunc func(values []any) (any, error)

func arity(values []any, want int) error {
	if len(values) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrExpressionArity, len(values), want)
	}
	return nil
}

func arg[T any](values []any, i int) (T, error) {
	var zero T
	if values[i] == nil {
		return zero, nil
	}
	v, ok := values[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %T", ErrExpressionType, i, values[i], zero)
	}
	return v, nil
}
