package binding

import "fmt"

// Converter transforms a value crossing the model/target boundary.
type Converter func(v any) (any, error)

// Converters pairs the two directions. Nil members act as identity.
type Converters struct {
	OnRead  Converter
	OnWrite Converter
}

// Chain runs converters left to right, stopping at the first error.
func Chain(cs ...Converter) Converter {
	return func(v any) (any, error) {
		var err error
		for _, c := range cs {
			if c == nil {
				continue
			}
			if v, err = c(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// Swap exchanges OnRead and OnWrite.
func (c Converters) Swap() Converters {
	return Converters{OnRead: c.OnWrite, OnWrite: c.OnRead}
}

func (c Converters) read(v any) (any, error) {
	return apply("on_read", c.OnRead, v)
}

func (c Converters) write(v any) (any, error) {
	return apply("on_write", c.OnWrite, v)
}

func apply(stage string, c Converter, v any) (out any, err error) {
	if c == nil {
		return v, nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = &ConversionError{Stage: stage, Value: v, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	out, err = c(v)
	if err != nil {
		return nil, &ConversionError{Stage: stage, Value: v, Err: err}
	}
	return out, nil
}
