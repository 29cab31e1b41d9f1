package trigger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateTrigger indicates two or more handlers declared the same trigger.
	ErrDuplicateTrigger = errors.New("trigger: duplicate trigger")

	// ErrTriggerNotSupported indicates no handler could serve a trigger.
	ErrTriggerNotSupported = errors.New("trigger: trigger not supported")

	// ErrBadArguments indicates the arguments did not fit the handler's signature.
	ErrBadArguments = errors.New("trigger: arguments do not match handler")

	// ErrInvalidHandler indicates a declared handler is not a callable function.
	ErrInvalidHandler = errors.New("trigger: invalid handler")

	// ErrNoTrigger indicates a dispatch without an explicit trigger on a mapper
	// that was built without a default one.
	ErrNoTrigger = errors.New("trigger: no trigger to dispatch")
)

// DuplicateTriggerError is returned by Build when several handlers declare the
// same trigger. Build reports one DuplicateTriggerError per offending trigger.
type DuplicateTriggerError struct {
	// Trigger is the key declared more than once.
	Trigger any

	// Count is the number of declarations found for Trigger.
	Count int

	// Handlers lists the declared handler names, in declaration order.
	Handlers []string
}

func (e *DuplicateTriggerError) Error() string {
	msg := fmt.Sprintf("duplicate trigger attributes found for trigger: %v, number of duplications: %d", e.Trigger, e.Count)
	if len(e.Handlers) > 0 {
		msg += " (" + strings.Join(e.Handlers, ", ") + ")"
	}
	return msg
}

// Is reports whether target is ErrDuplicateTrigger.
func (e *DuplicateTriggerError) Is(target error) bool {
	return target == ErrDuplicateTrigger
}

// TriggerNotSupportedError is returned when a trigger has no registered
// handler, or when the handler could not be invoked with the given arguments.
// In the second case Cause carries the reason and wraps ErrBadArguments.
//
// Errors returned by the handler itself are never wrapped in this type.
type TriggerNotSupportedError struct {
	Trigger any
	Cause   error
}

func (e *TriggerNotSupportedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("the trigger with id: %v, is not supported: %v", e.Trigger, e.Cause)
	}
	return fmt.Sprintf("the trigger with id: %v, is not supported", e.Trigger)
}

// Is reports whether target is ErrTriggerNotSupported.
func (e *TriggerNotSupportedError) Is(target error) bool {
	return target == ErrTriggerNotSupported
}

func (e *TriggerNotSupportedError) Unwrap() error { return e.Cause }

// InvalidHandlerError is returned by Build when a binding's handler is nil or
// not a function.
type InvalidHandlerError struct {
	Trigger any
	Name    string
	Reason  string
}

func (e *InvalidHandlerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid handler %s for trigger %v: %s", e.Name, e.Trigger, e.Reason)
	}
	return fmt.Sprintf("invalid handler for trigger %v: %s", e.Trigger, e.Reason)
}

// Is reports whether target is ErrInvalidHandler.
func (e *InvalidHandlerError) Is(target error) bool {
	return target == ErrInvalidHandler
}

// ValidationError wraps the error returned by Validate on a decoded payload.
// It is returned as-is from dispatch: a payload that fails validation reached
// its handler's contract, so it is not reported as an unsupported trigger.
type ValidationError struct {
	Trigger any
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate payload for trigger %v: %v", e.Trigger, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
