package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	"gocloud.dev/blob"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/internal/cmd"
)

const workflowDoc = `
comment: Check a remediation
states:
  - id: Check
    type: lambda
    function: arn:aws:lambda:us-east-1:111111111111:function:check
    resultSelector:
      ExecState.$: $.Payload.status
    next: Done
  - id: Done
    type: succeed
`

const sampleResult = `{
  "StatusCode": 200,
  "Payload": {"status": "Success", "message": "done"}
}`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "ENV", "AWS_PARTITION",
		"OUTPUT_URL", "OUTPUT_PREFIX", "OUTPUT_INDENT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errs bytes.Buffer
	code := cmd.Execute(args, cmd.Streams{Out: &out, Err: &errs})
	return code, out.String(), errs.String()
}

func TestSynthToStdout(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, t.TempDir(), "check.yaml", workflowDoc)

	code, out, logs := run(t, "synth", file)
	assert.Equal(t, 0, code)
	assert.True(t, gjson.Valid(out))

	doc := gjson.Parse(out)
	assert.Equal(t, "Check", doc.Get("StartAt").String())
	assert.Equal(t, "arn:aws:states:::lambda:invoke",
		doc.Get("States.Check.Resource").String())
	assert.Equal(t, "$.Payload.status",
		doc.Get("States.Check.ResultSelector.ExecState\\.$").String())

	assert.Contains(t, logs, "Definition synthesized")
	assert.Contains(t, logs, `"destination":"stdout"`)
}

func TestSynthFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_PARTITION", "aws-cn")
	file := writeFile(t, t.TempDir(), "check.yaml", workflowDoc)

	code, out, _ := run(t, "synth", file)
	assert.Equal(t, 0, code)
	assert.Equal(t, "arn:aws-cn:states:::lambda:invoke",
		gjson.Get(out, "States.Check.Resource").String())

	code, out, _ = run(t, "synth", "--partition", "aws-us-gov", "--indent", file)
	assert.Equal(t, 0, code)
	assert.Equal(t, "arn:aws-us-gov:states:::lambda:invoke",
		gjson.Get(out, "States.Check.Resource").String())
	assert.Contains(t, out, "\n  \"StartAt\"")
}

func TestSynthToBucket(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_PREFIX", "definitions")
	dir := t.TempDir()
	bucketDir := t.TempDir()
	file := writeFile(t, dir, "check.yaml", workflowDoc)
	url := "file://" + filepath.ToSlash(bucketDir)

	code, out, logs := run(t, "synth", "--out", url, file)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Contains(t, logs, "definitions/check.asl.json")

	code, _, _ = run(t, "synth", "--out", url, "--key", "orchestrator", file)
	assert.Equal(t, 0, code)

	ctx := context.Background()
	b, err := blob.OpenBucket(ctx, url)
	assert.NoError(t, err)
	defer func() { _ = b.Close() }()

	for _, key := range []string{
		"definitions/check.asl.json",
		"definitions/orchestrator.asl.json",
	} {
		data, err := b.ReadAll(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, "Check", gjson.GetBytes(data, "StartAt").String())
	}
}

func TestSynthErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := writeFile(t, dir, "check.yaml", workflowDoc)
	broken := writeFile(t, dir, "broken.yaml",
		"states:\n  - id: A\n    type: lambda\n")

	cases := map[string][]string{
		"missing file":      {"synth", filepath.Join(dir, "missing.yaml")},
		"no args":           {"synth"},
		"bad partition":     {"synth", "--partition", "aws-mars", file},
		"bad output url":    {"synth", "--out", "not-a-url", file},
		"invalid workflow":  {"synth", broken},
		"unknown command":   {"deploy"},
		"unknown flag":      {"synth", "--bogus", file},
		"unknown bucket":    {"synth", "--out", "nope://bucket", file},
		"preview no inputs": {"preview"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			code, out, logs := run(t, args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, logs, "Command failed")
		})
	}
}

func TestInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_INDENT", "sometimes")
	file := writeFile(t, t.TempDir(), "check.yaml", workflowDoc)

	code, _, logs := run(t, "synth", file)
	assert.Equal(t, 1, code)
	assert.Contains(t, logs, "OUTPUT_INDENT")
}

func TestInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	sel := writeFile(t, dir, "selector.yaml", "ExecState.$: $.Payload.status\n")
	res := writeFile(t, dir, "result.json", sampleResult)
	file := writeFile(t, dir, "check.yaml", workflowDoc)

	cases := map[string][]string{
		"preview": {"preview", "--selector", sel, "--result", res},
		"synth":   {"synth", file},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LOG_LEVEL", "loud")

			code, out, logs := run(t, args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, logs, "invalid log level: loud")
		})
	}
}

func TestPreview(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	sel := writeFile(t, dir, "selector.yaml",
		"ExecState.$: $.Payload.status\nSource: check\n")
	res := writeFile(t, dir, "result.json", sampleResult)

	code, out, _ := run(t, "preview", "--selector", sel, "--result", res)
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{"ExecState":"Success","Source":"check"}`, out)
}

func TestPreviewEmptySelector(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	sel := writeFile(t, dir, "selector.json", "{}")
	res := writeFile(t, dir, "result.json", sampleResult)

	code, out, _ := run(t, "preview", "--selector", sel, "--result", res)
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{}`, out)
}

func TestPreviewErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	res := writeFile(t, dir, "result.json", sampleResult)
	badJSON := writeFile(t, dir, "bad.json", "{nope")
	badPath := writeFile(t, dir, "bad-path.yaml", "x.$: $.Payload[\n")
	missing := writeFile(t, dir, "missing.yaml", "x.$: $.Payload.nothing\n")
	good := writeFile(t, dir, "good.yaml", "x.$: $.Payload.status\n")

	cases := map[string][]string{
		"invalid path":   {"--selector", badPath, "--result", res},
		"path not found": {"--selector", missing, "--result", res},
		"invalid result": {"--selector", good, "--result", badJSON},
		"missing result": {
			"--selector", good, "--result", filepath.Join(dir, "none.json"),
		},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, out, logs := run(t, append([]string{"preview"}, args...)...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, logs, "Command failed")
		})
	}
}

func TestVersion(t *testing.T) {
	clearEnv(t)
	code, out, _ := run(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, cmd.Version)
}
