package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/selector"
)

const lambdaResult = `{
	"ExecutedVersion": "$LATEST",
	"StatusCode": 200,
	"SdkHttpMetadata": {"HttpStatusCode": 200},
	"Payload": {
		"status": "Success",
		"remediation_status": "SUCCESS",
		"message": "Remediation succeeded",
		"executionid": "43374019-a309-4627-b8a2-c641e0140262",
		"affected_object": "AWS::S3::Bucket bucket-1",
		"logdata": ["line 1", "line 2"]
	}
}`

func parsed(t *testing.T) any {
	t.Helper()
	raw, err := selector.ParseResult([]byte(lambdaResult))
	assert.NoError(t, err)
	return raw
}

func TestApplyDropsMetadata(t *testing.T) {
	raw := parsed(t)

	res, err := selector.Apply(api.Selector{
		"ExecState.$":      "$.Payload.status",
		"Message.$":        "$.Payload.message",
		"LogData.$":        "$.Payload.logdata",
		"AffectedObject.$": "$.Payload.affected_object",
		"Source":           "check_ssm_execution",
	}, raw)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{
		"ExecState":      "Success",
		"Message":        "Remediation succeeded",
		"LogData":        []any{"line 1", "line 2"},
		"AffectedObject": "AWS::S3::Bucket bucket-1",
		"Source":         "check_ssm_execution",
	}, res)
}

func TestApplyNested(t *testing.T) {
	raw := parsed(t)

	res, err := selector.Apply(api.Selector{
		"Remediation": map[string]any{
			"State.$": "$.Payload.remediation_status",
			"Code.$":  "$.StatusCode",
		},
	}, raw)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{
		"Remediation": map[string]any{
			"State": "SUCCESS",
			"Code":  200.0,
		},
	}, res)
}

func TestApplyAbsentAndEmpty(t *testing.T) {
	raw := parsed(t)

	res, err := selector.Apply(nil, raw)
	assert.NoError(t, err)
	assert.Equal(t, raw, res)

	res, err = selector.Apply(api.Selector{}, raw)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{}, res)
}

func TestApplyErrors(t *testing.T) {
	raw := parsed(t)

	_, err := selector.Apply(api.Selector{"x.$": "$.Payload.missing"}, raw)
	assert.ErrorIs(t, err, selector.ErrPathNotFound)
	assert.Contains(t, err.Error(), "x.$")

	_, err = selector.Apply(api.Selector{"x.$": 12}, raw)
	assert.ErrorIs(t, err, selector.ErrPathNotString)

	_, err = selector.Apply(api.Selector{"x.$": "$$.Execution.Id"}, raw)
	assert.ErrorIs(t, err, selector.ErrContextPath)

	_, err = selector.Apply(api.Selector{
		"outer": map[string]any{"x.$": "$.Payload["},
	}, raw)
	assert.ErrorIs(t, err, selector.ErrInvalidPath)
}

func TestEvaluateIndefinitePaths(t *testing.T) {
	raw := parsed(t)

	res, err := selector.Evaluate("$.Payload.logdata[*]", raw)
	assert.NoError(t, err)
	assert.Equal(t, []any{"line 1", "line 2"}, res)

	res, err = selector.Evaluate("$.Payload.nothing[*]", raw)
	assert.NoError(t, err)
	assert.Equal(t, []any{}, res)

	res, err = selector.Evaluate("$.Payload.logdata[0]", raw)
	assert.NoError(t, err)
	assert.Equal(t, "line 1", res)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, selector.Validate(api.Selector{
		"a.$":    "$.Payload.status",
		"ctx.$":  "$$.Execution.Id",
		"plain":  "$.[[ not a path",
		"nested": map[string]any{"b.$": "$.x"},
	}))

	err := selector.Validate(api.Selector{
		"nested": map[string]any{"b.$": "$.Payload["},
	})
	assert.ErrorIs(t, err, selector.ErrInvalidPath)

	err = selector.Validate(api.Selector{"a.$": true})
	assert.ErrorIs(t, err, selector.ErrPathNotString)
}

func TestParseResultInvalid(t *testing.T) {
	_, err := selector.ParseResult([]byte("{not json"))
	assert.ErrorIs(t, err, selector.ErrInvalidJSON)
}
