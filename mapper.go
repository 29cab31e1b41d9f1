package trigger

import "github.com/samber/lo"

// Mapper routes triggers to the handlers an owning object declares.
//
// Usage:
//  1. Implement Declarer on the owning object
//  2. Create a mapper with New (or NewIntMapper / NewStringMapper)
//  3. Dispatch with ProcessTrigger, or Process for the default trigger
//
// The handler table is built and checked once, inside New; a Mapper never
// exists without it. Mapper holds no other mutable state and is safe for
// concurrent use as long as the handlers and hooks are.
type Mapper[K comparable] struct {
	registry   *Registry[K]
	trigger    K
	hasTrigger bool
	hooks      hooks[K]
}

// IntMapper dispatches on integer triggers.
type IntMapper = Mapper[int]

// StringMapper dispatches on string triggers.
type StringMapper = Mapper[string]

// New builds the handler table declared by d and returns a Mapper over it.
//
// New fails if d declares the same trigger more than once or declares
// something that is not a function; see BuildBindings.
//
// Example:
//
//	type Door struct{ open bool }
//
//	func (d *Door) Triggers() []trigger.Binding[int] {
//	    return []trigger.Binding[int]{
//	        trigger.Bind(1, d.Open),
//	        trigger.Bind(2, d.Close),
//	    }
//	}
//
//	m, err := trigger.New[int](door)
//	err = m.ProcessTrigger(1)
func New[K comparable](d Declarer[K], opts ...Option[K]) (*Mapper[K], error) {
	var cfg config[K]
	for _, opt := range opts {
		opt(&cfg)
	}

	r, err := Build(d)
	if err != nil {
		return nil, err
	}

	return &Mapper[K]{
		registry:   r,
		trigger:    cfg.trigger,
		hasTrigger: cfg.hasTrigger,
		hooks:      cfg.hooks,
	}, nil
}

// MustNew is like New but panics if the handler table cannot be built.
// Use it where a duplicate trigger is a programming error, e.g. when wiring
// package-level mappers.
func MustNew[K comparable](d Declarer[K], opts ...Option[K]) *Mapper[K] {
	return lo.Must(New(d, opts...))
}

// NewIntMapper returns a Mapper over the integer triggers declared by d.
func NewIntMapper(d Declarer[int], opts ...Option[int]) (*IntMapper, error) {
	return New(d, opts...)
}

// NewStringMapper returns a Mapper over the string triggers declared by d.
func NewStringMapper(d Declarer[string], opts ...Option[string]) (*StringMapper, error) {
	return New(d, opts...)
}

// Registry returns the handler table. It is read-only.
func (m *Mapper[K]) Registry() *Registry[K] {
	return m.registry
}

// Trigger returns the default trigger and whether one was set with WithTrigger.
func (m *Mapper[K]) Trigger() (K, bool) {
	return m.trigger, m.hasTrigger
}

// Process dispatches the default trigger with args. It returns ErrNoTrigger
// if the Mapper was built without WithTrigger.
func (m *Mapper[K]) Process(args ...any) error {
	if !m.hasTrigger {
		return ErrNoTrigger
	}
	_, err := m.Call(m.trigger, args...)
	return err
}

// ProcessTrigger dispatches trigger with args, discarding any non-error
// results of the handler.
func (m *Mapper[K]) ProcessTrigger(trigger K, args ...any) error {
	_, err := m.Call(trigger, args...)
	return err
}

// Call dispatches trigger with args and returns the handler's results.
//
// The processing flow:
//  1. Look up the handler registered for trigger
//  2. Fit args to the handler's parameters
//  3. Call the handler
//
// A miss in step 1 or a mismatch in step 2 returns a
// *TriggerNotSupportedError carrying trigger; a decoded payload that fails
// validation returns a *ValidationError. Whatever the handler returns in
// step 3, error included, is passed through unchanged. Panics are not
// recovered.
func (m *Mapper[K]) Call(trigger K, args ...any) ([]any, error) {
	return m.registry.call(trigger, args, &m.hooks)
}
