package trigger

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/samber/lo"
)

// Registry is an immutable table from trigger to handler.
//
// A Registry is only ever obtained from Build or BuildBindings, fully built
// and checked for duplicates. It is safe for concurrent use; whether the
// handlers are is up to their authors.
type Registry[K comparable] struct {
	handlers map[K]*handler
	order    []K
}

// Build collects the bindings declared by d and builds a Registry from them.
// A nil Declarer yields an empty Registry.
func Build[K comparable](d Declarer[K]) (*Registry[K], error) {
	if d == nil {
		return BuildBindings[K]()
	}
	return BuildBindings(d.Triggers()...)
}

// BuildBindings builds a Registry from bindings.
//
// Bindings are grouped by key. If any key is declared more than once, Build
// fails with a *DuplicateTriggerError for each such key; if a handler is not
// a function, or its key cannot be hashed (an interface key holding a slice,
// map or func), it fails with an *InvalidHandlerError. Failures are joined
// and no Registry is returned: there is no partially built table.
//
// Handlers are not invoked.
func BuildBindings[K comparable](bindings ...Binding[K]) (*Registry[K], error) {
	var errs []error

	hashable := make([]Binding[K], 0, len(bindings))
	for _, b := range bindings {
		if k := reflect.ValueOf(any(b.Key)); k.IsValid() && !k.Comparable() {
			errs = append(errs, &InvalidHandlerError{
				Trigger: b.Key,
				Name:    b.Name,
				Reason:  fmt.Sprintf("trigger of type %T is not hashable", b.Key),
			})
			continue
		}
		hashable = append(hashable, b)
	}

	groups := lo.GroupBy(hashable, func(b Binding[K]) K { return b.Key })

	r := &Registry[K]{
		handlers: make(map[K]*handler, len(groups)),
		order:    make([]K, 0, len(groups)),
	}

	for _, b := range lo.UniqBy(hashable, func(b Binding[K]) K { return b.Key }) {
		if group := groups[b.Key]; len(group) > 1 {
			errs = append(errs, &DuplicateTriggerError{
				Trigger:  b.Key,
				Count:    len(group),
				Handlers: lo.Map(group, func(b Binding[K], _ int) string { return b.Name }),
			})
			continue
		}

		h, reason := newHandler(b.Name, b.Handler)
		if reason != "" {
			errs = append(errs, &InvalidHandlerError{Trigger: b.Key, Name: b.Name, Reason: reason})
			continue
		}

		r.handlers[b.Key] = h
		r.order = append(r.order, b.Key)
	}

	switch len(errs) {
	case 0:
		return r, nil
	case 1:
		return nil, errs[0]
	default:
		return nil, errors.Join(errs...)
	}
}

// Len returns the number of registered triggers.
func (r *Registry[K]) Len() int {
	return len(r.order)
}

// Has reports whether a handler is registered for key.
func (r *Registry[K]) Has(key K) bool {
	_, ok := r.handlers[key]
	return ok
}

// Triggers returns the registered triggers in declaration order.
func (r *Registry[K]) Triggers() []K {
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

// Handler returns the name of the handler registered for key.
func (r *Registry[K]) Handler(key K) (string, bool) {
	h, ok := r.handlers[key]
	if !ok {
		return "", false
	}
	return h.name, true
}

// Call looks up the handler for key and invokes it with args.
//
// It returns the handler's non-error results and the handler's own error
// unchanged. If no handler is registered, or args do not fit its
// parameters, Call returns a *TriggerNotSupportedError; a payload whose
// Validate method fails yields a *ValidationError.
//
// Call fires no hooks; dispatch through a Mapper to observe it.
func (r *Registry[K]) Call(key K, args ...any) ([]any, error) {
	var none hooks[K]
	return r.call(key, args, &none)
}

// call is the single dispatch path: lookup, invocation, error translation,
// with hs fired around each step.
func (r *Registry[K]) call(key K, args []any, hs *hooks[K]) ([]any, error) {
	h, ok := r.handlers[key]
	if !ok {
		err := &TriggerNotSupportedError{Trigger: key}
		hs.notSupported(key, err)
		return nil, err
	}

	hs.dispatch(key, h.name)

	start := time.Now()
	results, err := h.call(args)
	duration := time.Since(start)

	if derr := dispatchError(key, h, err); derr != nil {
		var nerr *TriggerNotSupportedError
		if errors.As(derr, &nerr) {
			hs.notSupported(key, derr)
		} else {
			hs.failure(key, h.name, derr, duration)
		}
		return nil, derr
	}

	if err != nil {
		hs.failure(key, h.name, err, duration)
	} else {
		hs.success(key, h.name, duration)
	}
	return results, err
}

// dispatchError translates a failure to invoke h into the error reported for
// key. It returns nil when err is nil or came from the handler itself.
func dispatchError[K comparable](key K, h *handler, err error) error {
	if err == nil {
		return nil
	}

	var aerr *argError
	if errors.As(err, &aerr) {
		return &TriggerNotSupportedError{
			Trigger: key,
			Cause:   fmt.Errorf("%w: %s: %w", ErrBadArguments, h.name, aerr.err),
		}
	}
	var verr *validationError
	if errors.As(err, &verr) {
		return &ValidationError{Trigger: key, Err: verr.err}
	}

	return nil
}
