package observe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is matched by every *InvalidTargetError.
	ErrInvalidTarget = errors.New("observe: invalid target")
	// ErrStaleSubject marks work attempted against a disposed subject.
	// It is logged, never returned, by the binding layer.
	ErrStaleSubject = errors.New("observe: stale subject")
	// ErrNotifyDepth is returned when nested notifications exceed Config.MaxDepth.
	ErrNotifyDepth = errors.New("observe: notification depth exceeded")
	// ErrObserverPanic wraps a panic recovered from an observer callback.
	ErrObserverPanic = errors.New("observe: observer panicked")
	// ErrObserverDisposed is returned when registering through a disposed Observer.
	ErrObserverDisposed = errors.New("observe: observer disposed")
	// ErrUnbalancedBatch is returned by EndBatch without a matching StartBatch.
	ErrUnbalancedBatch = errors.New("observe: EndBatch without StartBatch")
)

// InvalidTargetError reports a subject/path pair that cannot be observed.
type InvalidTargetError struct {
	Subject any
	Path    string
	Reason  string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("observe: invalid target %T %q: %s", e.Subject, e.Path, e.Reason)
}

func (e *InvalidTargetError) Unwrap() error {
	return ErrInvalidTarget
}

func invalidTarget(subject any, path, reason string) error {
	return &InvalidTargetError{Subject: subject, Path: path, Reason: reason}
}
