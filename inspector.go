package trigger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when a raw message is not valid JSON.
var ErrInvalidJSON = errors.New("trigger: invalid JSON")

// Inspector examines raw bytes and returns a View for field queries.
type Inspector interface {
	Inspect(raw []byte) (View, error)
}

// View provides format-agnostic field access for trigger extraction.
type View interface {
	// HasField returns true if the path exists in the message.
	HasField(path string) bool

	// GetString returns the string value at path, or false if not found
	// or not a string.
	GetString(path string) (string, bool)

	// GetInt returns the integer value at path, or false if not found or
	// not an integral number.
	GetInt(path string) (int, bool)

	// GetBytes returns the raw bytes at path, or false if not found.
	// For JSON, this returns the raw JSON value (including quotes for strings).
	GetBytes(path string) ([]byte, bool)
}

// JSONInspector returns an Inspector that uses gjson for field access.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (View, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonView{raw: raw}, nil
}

type jsonView struct {
	raw []byte
}

func (v jsonView) HasField(path string) bool {
	return gjson.GetBytes(v.raw, path).Exists()
}

func (v jsonView) GetString(path string) (string, bool) {
	r := gjson.GetBytes(v.raw, path)
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func (v jsonView) GetInt(path string) (int, bool) {
	r := gjson.GetBytes(v.raw, path)
	if r.Type != gjson.Number || strings.ContainsAny(r.Raw, ".eE") {
		return 0, false
	}
	n := r.Int()
	if float64(n) != r.Float() {
		return 0, false
	}
	return int(n), true
}

func (v jsonView) GetBytes(path string) ([]byte, bool) {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() {
		return nil, false
	}
	return []byte(r.Raw), true
}

// KeyFunc extracts a trigger from a View. It returns found=false with a nil
// error when the view carries no trigger, and an error when it carries one
// that cannot be used.
type KeyFunc[K comparable] func(v View) (trigger K, found bool, err error)

// StringField returns a KeyFunc reading a string trigger at path.
func StringField(path string) KeyFunc[string] {
	return fieldKey(path, "a string", View.GetString)
}

// IntField returns a KeyFunc reading an integer trigger at path. Only
// integer literals count: 1.0 and 1e0 are rejected.
func IntField(path string) KeyFunc[int] {
	return fieldKey(path, "an integer", View.GetInt)
}

// fieldKey reads a trigger at path with get. A missing field is not found; a
// field of the wrong type is a *TriggerNotSupportedError carrying its raw
// value.
func fieldKey[K comparable](path, kind string, get func(View, string) (K, bool)) KeyFunc[K] {
	return func(v View) (K, bool, error) {
		var zero K
		if !v.HasField(path) {
			return zero, false, nil
		}
		k, ok := get(v, path)
		if !ok {
			raw, _ := v.GetBytes(path)
			return zero, false, &TriggerNotSupportedError{
				Trigger: string(raw),
				Cause:   fmt.Errorf("%w: trigger at %q is not %s", ErrBadArguments, path, kind),
			}
		}
		return k, true, nil
	}
}

// Envelope describes where the trigger and payload of a raw message live.
type Envelope[K comparable] struct {
	// Trigger extracts the trigger. When it is nil or finds nothing, the
	// mapper's default trigger is used; when it fails, ProcessRaw returns
	// its error.
	Trigger KeyFunc[K]

	// Payload is the path of the value handed to the handler as its first
	// argument. It arrives as json.RawMessage and is decoded into the
	// handler's parameter type. Empty means no payload argument.
	Payload string

	// Inspector parses the message. Defaults to JSONInspector.
	Inspector Inspector
}

// ProcessRaw extracts a trigger from raw as described by env and dispatches
// it. The payload, when env names one, is passed before args.
//
// Example:
//
//	env := trigger.Envelope[string]{
//	    Trigger: trigger.StringField("type"),
//	    Payload: "payload",
//	}
//	err := m.ProcessRaw([]byte(`{"type": "login", "payload": {"user": "ada"}}`), env)
func (m *Mapper[K]) ProcessRaw(raw []byte, env Envelope[K], args ...any) error {
	insp := env.Inspector
	if insp == nil {
		insp = JSONInspector()
	}

	view, err := insp.Inspect(raw)
	if err != nil {
		return err
	}

	key, ok := m.trigger, m.hasTrigger
	if env.Trigger != nil {
		k, found, err := env.Trigger(view)
		if err != nil {
			return err
		}
		if found {
			key, ok = k, true
		}
	}
	if !ok {
		return ErrNoTrigger
	}

	if env.Payload != "" {
		payload, found := view.GetBytes(env.Payload)
		if !found {
			payload = []byte("null")
		}
		args = append([]any{json.RawMessage(payload)}, args...)
	}

	_, err = m.Call(key, args...)
	return err
}
