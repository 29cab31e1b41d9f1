package trigger

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// validatable is the interface for payload validation.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

var (
	errorType = reflect.TypeFor[error]()
	rawType   = reflect.TypeFor[json.RawMessage]()
)

// handler is a registered function prepared for invocation. Signatures that
// are common enough get a direct call; everything else goes through reflect.
type handler struct {
	name   string
	fn     reflect.Value
	typ    reflect.Type
	direct func(args []any) ([]any, error)
}

// newHandler prepares fn for invocation. It returns a non-empty reason when
// fn cannot be used as a handler.
func newHandler(name string, fn any) (*handler, string) {
	if fn == nil {
		return nil, "handler is nil"
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Sprintf("handler is %T, not a function", fn)
	}
	if v.IsNil() {
		return nil, "handler is a nil function"
	}
	if name == "" {
		name = funcName(v)
	}

	h := &handler{name: name, fn: v, typ: v.Type()}

	switch f := fn.(type) {
	case func():
		h.direct = func(args []any) ([]any, error) {
			if len(args) != 0 {
				return nil, arityError(0, len(args))
			}
			f()
			return nil, nil
		}
	case func() error:
		h.direct = func(args []any) ([]any, error) {
			if len(args) != 0 {
				return nil, arityError(0, len(args))
			}
			return nil, f()
		}
	case func(...any):
		h.direct = func(args []any) ([]any, error) {
			f(args...)
			return nil, nil
		}
	case func(...any) error:
		h.direct = func(args []any) ([]any, error) {
			return nil, f(args...)
		}
	}

	return h, ""
}

// call invokes the handler. Failures to fit args to the signature are
// returned as *argError or *validationError without calling the handler;
// an error returned by the handler itself comes back unchanged.
func (h *handler) call(args []any) ([]any, error) {
	if h.direct != nil {
		return h.direct(args)
	}

	in, err := h.prepare(args)
	if err != nil {
		return nil, err
	}

	out := h.fn.Call(in)

	var herr error
	if n := len(out); n > 0 && h.typ.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			herr = e.Interface().(error)
		}
		out = out[:n-1]
	}

	var results []any
	if len(out) > 0 {
		results = make([]any, len(out))
		for i, o := range out {
			results[i] = o.Interface()
		}
	}
	return results, herr
}

// prepare converts args to the handler's parameter types.
func (h *handler) prepare(args []any) ([]reflect.Value, error) {
	t := h.typ
	n := t.NumIn()

	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, &argError{err: fmt.Errorf("want at least %d arguments, got %d", n-1, len(args))}
		}
	} else if len(args) != n {
		return nil, arityError(n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := t.In(min(i, n-1))
		if t.IsVariadic() && i >= n-1 {
			pt = pt.Elem()
		}
		v, err := convertArg(a, pt)
		if err != nil {
			var verr *validationError
			if errors.As(err, &verr) {
				return nil, err
			}
			return nil, &argError{err: fmt.Errorf("argument %d: %w", i, err)}
		}
		in[i] = v
	}
	return in, nil
}

// convertArg fits a single argument to the parameter type pt.
func convertArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", pt)
	}

	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}

	if v.Type() == rawType {
		return decodeArg(a.(json.RawMessage), pt)
	}

	if cv, ok := convertNumber(v, pt); ok {
		return cv, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), pt)
}

// decodeArg unmarshals a raw JSON payload into a new value of type pt and
// validates it when the value implements Validate.
func decodeArg(raw json.RawMessage, pt reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(pt)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("unmarshal payload into %s: %w", pt, err)
	}

	if pt.Kind() == reflect.Pointer && ptr.Elem().IsNil() {
		return ptr.Elem(), nil
	}

	if v, ok := ptr.Elem().Interface().(validatable); ok {
		if err := v.Validate(); err != nil {
			return reflect.Value{}, &validationError{err: err}
		}
	} else if v, ok := ptr.Interface().(validatable); ok {
		if err := v.Validate(); err != nil {
			return reflect.Value{}, &validationError{err: err}
		}
	}

	return ptr.Elem(), nil
}

// convertNumber converts between numeric kinds when no precision is lost.
func convertNumber(v reflect.Value, pt reflect.Type) (reflect.Value, bool) {
	out := reflect.New(pt).Elem()

	switch {
	case isInt(v.Kind()) && isInt(pt.Kind()):
		if out.OverflowInt(v.Int()) {
			return reflect.Value{}, false
		}
		out.SetInt(v.Int())
	case isUint(v.Kind()) && isUint(pt.Kind()):
		if out.OverflowUint(v.Uint()) {
			return reflect.Value{}, false
		}
		out.SetUint(v.Uint())
	case isInt(v.Kind()) && isUint(pt.Kind()):
		if v.Int() < 0 || out.OverflowUint(uint64(v.Int())) {
			return reflect.Value{}, false
		}
		out.SetUint(uint64(v.Int()))
	case isUint(v.Kind()) && isInt(pt.Kind()):
		if v.Uint() > 1<<63-1 || out.OverflowInt(int64(v.Uint())) {
			return reflect.Value{}, false
		}
		out.SetInt(int64(v.Uint()))
	case isFloat(v.Kind()) && isFloat(pt.Kind()):
		if out.OverflowFloat(v.Float()) {
			return reflect.Value{}, false
		}
		out.SetFloat(v.Float())
	default:
		return reflect.Value{}, false
	}

	return out, true
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// funcName returns a readable name for fn, e.g. "trigger_test.(*Door).Open".
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return fn.Type().String()
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func arityError(want, got int) error {
	return &argError{err: fmt.Errorf("want %d arguments, got %d", want, got)}
}

// argError wraps failures to fit arguments to a handler so we can tell them
// apart from errors the handler returned.
type argError struct {
	err error
}

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

// validationError wraps payload validation errors so we can identify them.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }
