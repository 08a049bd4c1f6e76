package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "object with output field", body: `{"output": "Hi there"}`, want: "Hi there"},
		{name: "object with text field", body: `{"text": "hello"}`, want: "hello"},
		{name: "object with message field", body: `{"message": "hey"}`, want: "hey"},
		{name: "object with response field", body: `{"response": "yo"}`, want: "yo"},
		{name: "output wins over text", body: `{"output": "a", "text": "b"}`, want: "a"},
		{name: "array takes first element", body: `[{"output": "first"}, {"output": "second"}]`, want: "first"},
		{name: "bare json string", body: `"just a string"`, want: "just a string"},
		{name: "unrecognized object falls back to raw body", body: `{"foo": "bar"}`, want: `{"foo": "bar"}`},
		{name: "plain text body", body: "not json at all", want: "not json at all"},
		{name: "empty body", body: "", want: ""},
		{name: "whitespace body", body: "  \n ", want: ""},
		{name: "empty array", body: `[]`, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize([]byte(tt.body)))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	bodies := []string{
		`{"output": "Hi there"}`,
		`[{"text": "x"}]`,
		`"bare"`,
		"raw text",
		"",
	}
	for _, body := range bodies {
		first := Normalize([]byte(body))
		second := Normalize([]byte(body))
		assert.Equal(t, first, second, "body %q", body)
	}
}
