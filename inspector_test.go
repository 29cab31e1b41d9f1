package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type JSONViewSuite struct {
	suite.Suite
	view View
}

func (s *JSONViewSuite) SetupTest() {
	raw := []byte(`{
		"type": "login",
		"id": 12,
		"ratio": 1.5,
		"whole": 1.0,
		"sci": 1e0,
		"active": true,
		"payload": {"user": "ada"}
	}`)

	var err error
	s.view, err = JSONInspector().Inspect(raw)
	s.Require().NoError(err)
}

func TestJSONViewSuite(t *testing.T) {
	suite.Run(t, new(JSONViewSuite))
}

func (s *JSONViewSuite) TestInvalidJSON() {
	for name, raw := range map[string][]byte{
		"malformed": []byte(`{not valid}`),
		"empty":     {},
	} {
		s.Run(name, func() {
			_, err := JSONInspector().Inspect(raw)
			s.Assert().ErrorIs(err, ErrInvalidJSON)
		})
	}
}

func (s *JSONViewSuite) TestHasField() {
	s.Assert().True(s.view.HasField("payload.user"))
	s.Assert().False(s.view.HasField("payload.missing"))
}

func (s *JSONViewSuite) TestGetString() {
	tests := map[string]struct {
		path string
		want string
		ok   bool
	}{
		"string":  {"type", "login", true},
		"nested":  {"payload.user", "ada", true},
		"number":  {"id", "", false},
		"boolean": {"active", "", false},
		"missing": {"missing", "", false},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			got, ok := s.view.GetString(tt.path)
			s.Assert().Equal(tt.ok, ok)
			s.Assert().Equal(tt.want, got)
		})
	}
}

func (s *JSONViewSuite) TestGetInt() {
	tests := map[string]struct {
		path string
		want int
		ok   bool
	}{
		"integer":  {"id", 12, true},
		"fraction": {"ratio", 0, false},
		"decimal":  {"whole", 0, false},
		"exponent": {"sci", 0, false},
		"string":   {"type", 0, false},
		"missing":  {"missing", 0, false},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			got, ok := s.view.GetInt(tt.path)
			s.Assert().Equal(tt.ok, ok)
			s.Assert().Equal(tt.want, got)
		})
	}
}

func (s *JSONViewSuite) TestGetBytes() {
	val, ok := s.view.GetBytes("payload")
	s.Require().True(ok)
	s.Assert().Equal(`{"user": "ada"}`, string(val))

	val, ok = s.view.GetBytes("type")
	s.Require().True(ok)
	s.Assert().Equal(`"login"`, string(val))

	_, ok = s.view.GetBytes("missing")
	s.Assert().False(ok)
}

type accountHandlers struct {
	logins []string
	resets []int
}

func (a *accountHandlers) onLogin(p loginPayload, source string) {
	a.logins = append(a.logins, p.User+"@"+source)
}

func (a *accountHandlers) onReset(id int) { a.resets = append(a.resets, id) }

type ProcessRawSuite struct {
	suite.Suite
	handlers *accountHandlers
}

func (s *ProcessRawSuite) SetupTest() {
	s.handlers = &accountHandlers{}
}

func TestProcessRawSuite(t *testing.T) {
	suite.Run(t, new(ProcessRawSuite))
}

func (s *ProcessRawSuite) stringMapper(opts ...Option[string]) *StringMapper {
	m, err := NewStringMapper(Bindings[string]{Bind("login", s.handlers.onLogin)}, opts...)
	s.Require().NoError(err)
	return m
}

func (s *ProcessRawSuite) TestDecodesPayload() {
	m := s.stringMapper()
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"type": "login", "payload": {"user": "ada"}}`), env, "web")

	s.Require().NoError(err)
	s.Assert().Equal([]string{"ada@web"}, s.handlers.logins)
}

func (s *ProcessRawSuite) TestUnknownTrigger() {
	m := s.stringMapper()
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"type": "logout", "payload": {}}`), env, "web")

	var nerr *TriggerNotSupportedError
	s.Require().ErrorAs(err, &nerr)
	s.Assert().Equal("logout", nerr.Trigger)
}

func (s *ProcessRawSuite) TestInvalidPayloadFailsValidation() {
	m := s.stringMapper()
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"type": "login", "payload": {"user": ""}}`), env, "web")

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Assert().Empty(s.handlers.logins)
}

func (s *ProcessRawSuite) TestMalformedPayloadIsBadArguments() {
	m := s.stringMapper()
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"type": "login", "payload": "ada"}`), env, "web")

	s.Assert().ErrorIs(err, ErrTriggerNotSupported)
	s.Assert().ErrorIs(err, ErrBadArguments)
}

func (s *ProcessRawSuite) TestInvalidJSON() {
	m := s.stringMapper()

	err := m.ProcessRaw([]byte(`{`), Envelope[string]{Trigger: StringField("type")})

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *ProcessRawSuite) TestMissingTriggerWithoutDefault() {
	m := s.stringMapper()

	err := m.ProcessRaw([]byte(`{"payload": {}}`), Envelope[string]{Trigger: StringField("type")})

	s.Assert().ErrorIs(err, ErrNoTrigger)
}

func (s *ProcessRawSuite) TestMissingTriggerFallsBackToDefault() {
	m := s.stringMapper(WithTrigger("login"))
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"payload": {"user": "bob"}}`), env, "cli")

	s.Require().NoError(err)
	s.Assert().Equal([]string{"bob@cli"}, s.handlers.logins)
}

func (s *ProcessRawSuite) TestMistypedTriggerIsNotDefaulted() {
	m := s.stringMapper(WithTrigger("login"))
	env := Envelope[string]{Trigger: StringField("type"), Payload: "payload"}

	err := m.ProcessRaw([]byte(`{"type": 42, "payload": {"user": "ada"}}`), env, "web")

	var nerr *TriggerNotSupportedError
	s.Require().ErrorAs(err, &nerr)
	s.Assert().Equal("42", nerr.Trigger)
	s.Assert().ErrorIs(err, ErrBadArguments)
	s.Assert().Empty(s.handlers.logins)
}

func (s *ProcessRawSuite) TestNonIntegerTriggerIsRejected() {
	m, err := NewIntMapper(Bindings[int]{Bind(1, s.handlers.onReset)}, WithTrigger(1))
	s.Require().NoError(err)
	env := Envelope[int]{Trigger: IntField("op"), Payload: "id"}

	for _, raw := range []string{
		`{"op": 1.0, "id": 7}`,
		`{"op": 1e0, "id": 7}`,
		`{"op": "1", "id": 7}`,
	} {
		err := m.ProcessRaw([]byte(raw), env)
		s.Assert().ErrorIs(err, ErrTriggerNotSupported, raw)
	}
	s.Assert().Empty(s.handlers.resets)
}

func (s *ProcessRawSuite) TestIntTrigger() {
	m, err := NewIntMapper(Bindings[int]{Bind(4, s.handlers.onReset)})
	s.Require().NoError(err)
	env := Envelope[int]{Trigger: IntField("op"), Payload: "id"}

	s.Require().NoError(m.ProcessRaw([]byte(`{"op": 4, "id": 99}`), env))
	s.Assert().Equal([]int{99}, s.handlers.resets)

	err = m.ProcessRaw([]byte(`{"op": 5, "id": 1}`), env)
	s.Assert().True(errors.Is(err, ErrTriggerNotSupported))
}

func (s *ProcessRawSuite) TestCustomInspector() {
	m := s.stringMapper()
	env := Envelope[string]{
		Trigger:   func(View) (string, bool, error) { return "login", true, nil },
		Inspector: fixedInspector{view: fixedView{user: "eve"}},
		Payload:   "payload",
	}

	s.Require().NoError(m.ProcessRaw(nil, env, "grpc"))
	s.Assert().Equal([]string{"eve@grpc"}, s.handlers.logins)
}

// fixedInspector ignores the raw bytes and returns a canned view.
type fixedInspector struct {
	view View
}

func (i fixedInspector) Inspect([]byte) (View, error) { return i.view, nil }

type fixedView struct {
	user string
}

func (v fixedView) HasField(string) bool            { return true }
func (v fixedView) GetString(string) (string, bool) { return "", false }
func (v fixedView) GetInt(string) (int, bool)       { return 0, false }
func (v fixedView) GetBytes(string) ([]byte, bool) {
	return []byte(`{"user": "` + v.user + `"}`), true
}
