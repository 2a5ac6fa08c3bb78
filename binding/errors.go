package binding

import (
	"errors"
	"fmt"
)

var (
	// ErrConversion is matched by every *ConversionError.
	ErrConversion       = errors.New("binding: conversion failed")
	ErrReadOnlyBinding  = errors.New("binding: read-only binding cannot write its source")
	ErrDisposed         = errors.New("binding: binding disposed")
	ErrNoTargetSetter   = errors.New("binding: target setter required")
	ErrNoTargetGetter   = errors.New("binding: target getter required")
	ErrComputedWritable = errors.New("binding: computed expressions are read-only")
	ErrExpressionArity  = errors.New("binding: wrong number of expression arguments")
	ErrExpressionType   = errors.New("binding: wrong expression argument type")
)

// ConversionError wraps a failing OnRead, OnWrite or Compute function.
type ConversionError struct {
	Stage string
	Value any
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("binding: %s conversion of %v (%T): %v", e.Stage, e.Value, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
