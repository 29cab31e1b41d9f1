package trigger

import "reflect"

// Binding declares that Handler serves Key.
//
// Handler is any function. Arguments passed to a dispatch call are fitted to
// its parameters in order; a trailing error result is returned to the caller
// unchanged.
type Binding[K comparable] struct {
	Key     K
	Name    string
	Handler any
}

// Bind declares handler for key. The binding is named after the function,
// which is what error messages and hooks report.
//
//	func (d *Door) Triggers() []trigger.Binding[int] {
//	    return []trigger.Binding[int]{
//	        trigger.Bind(1, d.onStart),
//	        trigger.Bind(2, d.onStop),
//	    }
//	}
func Bind[K comparable](key K, handler any) Binding[K] {
	return Binding[K]{Key: key, Name: nameOf(handler), Handler: handler}
}

// BindEach declares handler for every key in keys. Each key produces its own
// binding, as if Bind had been called once per key.
func BindEach[K comparable](handler any, keys ...K) []Binding[K] {
	name := nameOf(handler)
	bs := make([]Binding[K], len(keys))
	for i, k := range keys {
		bs[i] = Binding[K]{Key: k, Name: name, Handler: handler}
	}
	return bs
}

// Declarer is implemented by objects that own keyed handlers. Triggers must
// return the same bindings every time it is called.
type Declarer[K comparable] interface {
	Triggers() []Binding[K]
}

// Bindings is a Declarer backed by a plain slice, for handler tables that are
// not attached to an owning object.
type Bindings[K comparable] []Binding[K]

// Triggers implements the Declarer interface.
func (b Bindings[K]) Triggers() []Binding[K] {
	return b
}

func nameOf(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	return funcName(v)
}
