package trigger

import "time"

// OnDispatchFunc is called once the handler for trigger is found, before its
// arguments are fitted and it executes.
type OnDispatchFunc[K comparable] func(trigger K, handler string)

// OnSuccessFunc is called after the handler returns without an error.
type OnSuccessFunc[K comparable] func(trigger K, handler string, duration time.Duration)

// OnFailureFunc is called after the handler returns an error, or when its
// decoded payload fails validation.
type OnFailureFunc[K comparable] func(trigger K, handler string, err error, duration time.Duration)

// OnNotSupportedFunc is called when a trigger cannot be dispatched: no
// handler is registered, or the arguments do not fit it. err is the
// *TriggerNotSupportedError returned to the caller.
type OnNotSupportedFunc[K comparable] func(trigger K, err error)

// hooks holds all configured hook functions.
type hooks[K comparable] struct {
	onDispatch     []OnDispatchFunc[K]
	onSuccess      []OnSuccessFunc[K]
	onFailure      []OnFailureFunc[K]
	onNotSupported []OnNotSupportedFunc[K]
}

// config is what Options act on.
type config[K comparable] struct {
	trigger    K
	hasTrigger bool
	hooks      hooks[K]
}

// Option configures a Mapper.
type Option[K comparable] func(*config[K])

// WithTrigger sets the default trigger used by Process. It is fixed for the
// lifetime of the Mapper.
func WithTrigger[K comparable](trigger K) Option[K] {
	return func(c *config[K]) {
		c.trigger = trigger
		c.hasTrigger = true
	}
}

// WithOnDispatch adds a hook called just before a handler executes.
// Multiple hooks are called in order.
//
// Example:
//
//	trigger.WithOnDispatch(func(t int, handler string) {
//	    logger.Debug().Int("trigger", t).Str("handler", handler).Msg("dispatching")
//	})
func WithOnDispatch[K comparable](fn OnDispatchFunc[K]) Option[K] {
	return func(c *config[K]) {
		c.hooks.onDispatch = append(c.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a handler completes successfully.
// Multiple hooks are called in order.
func WithOnSuccess[K comparable](fn OnSuccessFunc[K]) Option[K] {
	return func(c *config[K]) {
		c.hooks.onSuccess = append(c.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a handler returns an error.
// Multiple hooks are called in order.
//
// Example:
//
//	trigger.WithOnFailure(func(t string, handler string, err error, d time.Duration) {
//	    metrics.Incr("trigger.failure", "trigger:"+t)
//	})
func WithOnFailure[K comparable](fn OnFailureFunc[K]) Option[K] {
	return func(c *config[K]) {
		c.hooks.onFailure = append(c.hooks.onFailure, fn)
	}
}

// WithOnNotSupported adds a hook called when a trigger cannot be dispatched.
// The hook only observes: the error is still returned to the caller.
// Multiple hooks are called in order.
func WithOnNotSupported[K comparable](fn OnNotSupportedFunc[K]) Option[K] {
	return func(c *config[K]) {
		c.hooks.onNotSupported = append(c.hooks.onNotSupported, fn)
	}
}

func (h *hooks[K]) dispatch(trigger K, handler string) {
	for _, fn := range h.onDispatch {
		fn(trigger, handler)
	}
}

func (h *hooks[K]) success(trigger K, handler string, d time.Duration) {
	for _, fn := range h.onSuccess {
		fn(trigger, handler, d)
	}
}

func (h *hooks[K]) failure(trigger K, handler string, err error, d time.Duration) {
	for _, fn := range h.onFailure {
		fn(trigger, handler, err, d)
	}
}

func (h *hooks[K]) notSupported(trigger K, err error) {
	for _, fn := range h.onNotSupported {
		fn(trigger, err)
	}
}
