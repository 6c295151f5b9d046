package assert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/states"
)

// Wrapper wraps testify assertions with definition-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// New creates a new test assertion wrapper
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// StateHasKey asserts that a rendered state holds key with the expected
// value
func (w *Wrapper) StateHasKey(js api.StateJSON, key string, expected any) {
	w.Helper()
	val, ok := js[key]
	if w.True(ok, "state should contain key %q", key) {
		w.Equal(expected, val)
	}
}

// StateLacksKey asserts that a rendered state does not hold key
func (w *Wrapper) StateLacksKey(js api.StateJSON, key string) {
	w.Helper()
	_, ok := js[key]
	w.False(ok, "state should not contain key %q", key)
}

// DefinitionValid asserts that a definition synthesizes to valid JSON and
// returns the parsed document for further probing
func (w *Wrapper) DefinitionValid(d *states.Definition) gjson.Result {
	w.Helper()
	data, err := d.ToJSON(false)
	if !w.NoError(err) {
		return gjson.Result{}
	}
	w.True(gjson.ValidBytes(data), "definition should be valid JSON")
	doc := gjson.ParseBytes(data)
	w.True(doc.Get("StartAt").Exists(), "definition should have StartAt")
	start := doc.Get("StartAt").String()
	w.True(doc.Get("States."+gjson.Escape(start)).Exists(),
		"start state %q should exist", start)
	return doc
}

// JSONPathEqual asserts the value found at a gjson path
func (w *Wrapper) JSONPathEqual(doc gjson.Result, path string, expected any) {
	w.Helper()
	res := doc.Get(path)
	if w.True(res.Exists(), "path %q should exist", path) {
		w.Equal(expected, res.Value())
	}
}
