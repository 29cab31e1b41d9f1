// Package trigger routes trigger values to the handler methods an object
// declares for them.
//
// It replaces long switch statements over message IDs or command names with a
// table declared next to the handlers. The table is built and checked for
// duplicate triggers once, when the Mapper is created, and is read-only after.
//
// # Quick Start
//
// Declare the handlers on the owning object:
//
//	type Door struct{ open bool }
//
//	func (d *Door) onStart() { d.open = true }
//	func (d *Door) onStop()  { d.open = false }
//
//	func (d *Door) Triggers() []trigger.Binding[int] {
//	    return []trigger.Binding[int]{
//	        trigger.Bind(1, d.onStart),
//	        trigger.Bind(2, d.onStop),
//	    }
//	}
//
// Build a mapper and dispatch:
//
//	m, err := trigger.NewIntMapper(door)
//	if err != nil {
//	    return err // duplicate trigger or invalid handler
//	}
//
//	err = m.ProcessTrigger(1)
//
// # Triggers
//
// Any comparable type can be a trigger. IntMapper and StringMapper cover the
// common cases; New works for any other key type, for example a named
// message ID type:
//
//	type MsgID uint16
//
//	m, err := trigger.New[MsgID](conn)
//
// Two bindings collide when their keys are equal under ==. Build reports every
// colliding key as a *DuplicateTriggerError and returns no table.
//
// A Mapper may carry a default trigger, fixed at construction with
// WithTrigger. Process dispatches it; ProcessTrigger dispatches an explicit
// one.
//
// # Handlers
//
// A handler is any function, usually a method value. Dispatch arguments are
// fitted to its parameters in order:
//
//   - Values assignable to the parameter type are passed as-is
//   - nil is passed to pointer, slice, map, chan, func and interface parameters
//   - Integers convert to other integer types, and floats to other float
//     types, when the value fits
//   - json.RawMessage is unmarshaled into the parameter type and validated if
//     the result implements Validate() error
//
// A trailing error result is the handler's own failure and is returned
// unchanged. Other results are available through Call.
//
// # Errors
//
// Dispatch reports its own failures as typed errors carrying the trigger:
//
//   - *TriggerNotSupportedError: no handler for the trigger, or the arguments
//     do not fit it (Cause then wraps ErrBadArguments)
//   - *ValidationError: a decoded payload failed Validate
//
// Use errors.Is with ErrTriggerNotSupported to branch on both kinds of
// unsupported dispatch, or errors.Is with ErrBadArguments to single out the
// mismatch:
//
//	if err := m.ProcessTrigger(id, args...); errors.Is(err, trigger.ErrTriggerNotSupported) {
//	    return fallback(id)
//	}
//
// # Raw Messages
//
// ProcessRaw extracts the trigger from a raw message and hands the payload to
// the handler, decoded into its parameter type:
//
//	env := trigger.Envelope[string]{
//	    Trigger: trigger.StringField("type"),
//	    Payload: "payload",
//	}
//	err := m.ProcessRaw(body, env)
//
// JSONInspector is used unless the Envelope names another Inspector. A
// message without a trigger field falls back to the default trigger; one whose
// trigger field has the wrong type is rejected with ErrBadArguments.
//
// # Hooks
//
// Hooks observe dispatch without coupling to a logging or metrics system:
//
//	m, err := trigger.NewIntMapper(door,
//	    trigger.WithOnFailure(func(t int, handler string, err error, d time.Duration) {
//	        metrics.Incr("trigger.failure")
//	    }),
//	    trigger.WithLogger[int](logger),
//	)
//
// Hooks never change the outcome of a dispatch.
//
// # Thread Safety
//
// A Mapper is immutable once New returns and may be shared between
// goroutines, provided its handlers and hooks are safe for concurrent use.
package trigger
