package tasks

import (
	"errors"
	"fmt"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/states"
)

type (
	// IntegrationPattern selects how the workflow waits on the service
	IntegrationPattern string

	// InvocationType is the Lambda invocation type
	InvocationType string

	// LambdaInvokeProps configures a Lambda invoke task
	LambdaInvokeProps struct {
		states.TaskProps

		// FunctionArn is the function (or alias/version ARN) to invoke
		FunctionArn string

		// Payload defaults to the entire state input
		Payload TaskInput

		// PayloadResponseOnly invokes the function through the legacy
		// integration, which returns only the function's response
		PayloadResponseOnly bool

		InvocationType     InvocationType
		ClientContext      string
		Qualifier          string
		IntegrationPattern IntegrationPattern

		// RetryOnServiceExceptions adds a retry for transient Lambda
		// service errors. Nil means true
		RetryOnServiceExceptions *bool
	}

	// LambdaInvoke is a Task state that invokes a Lambda function
	LambdaInvoke struct {
		states.TaskBase
		props     LambdaInvokeProps
		partition string
	}
)

const (
	RequestResponse  IntegrationPattern = "REQUEST_RESPONSE"
	WaitForTaskToken IntegrationPattern = "WAIT_FOR_TASK_TOKEN"

	InvocationRequestResponse InvocationType = "RequestResponse"
	InvocationEvent           InvocationType = "Event"
	InvocationDryRun          InvocationType = "DryRun"
)

var (
	ErrFunctionArnRequired    = errors.New("function ARN required")
	ErrUnsupportedPattern     = errors.New("unsupported integration pattern")
	ErrTaskTokenRequired      = errors.New("payload must reference the task token")
	ErrInvalidInvocationType  = errors.New("invalid invocation type")
	ErrUnsupportedPayloadKind = errors.New(
		"payload response only requires an object payload",
	)
)

var serviceExceptionRetry = api.Retry{
	ErrorEquals: []string{
		api.ErrorsLambdaService,
		api.ErrorsLambdaAWS,
		api.ErrorsLambdaSDK,
	},
	IntervalSeconds: 2,
	MaxAttempts:     api.Attempts(6),
	BackoffRate:     2,
}

// BuildLambdaInvoke validates props and creates a task that is not yet
// registered with scope
func BuildLambdaInvoke(
	scope states.Scope, id string, props LambdaInvokeProps,
) (*LambdaInvoke, error) {
	if scope == nil {
		return nil, states.ErrScopeNil
	}
	if err := validateLambdaProps(&props); err != nil {
		return nil, err
	}

	base, err := states.NewTaskBase(id, props.TaskProps)
	if err != nil {
		return nil, err
	}

	t := &LambdaInvoke{
		TaskBase:  base,
		props:     props,
		partition: scope.Partition(),
	}
	if props.RetryOnServiceExceptions == nil ||
		*props.RetryOnServiceExceptions {
		if err := t.AddRetry(serviceExceptionRetry); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewLambdaInvoke creates a Lambda invoke task and registers it with scope
func NewLambdaInvoke(
	scope states.Scope, id string, props LambdaInvokeProps,
) (*LambdaInvoke, error) {
	t, err := BuildLambdaInvoke(scope, id, props)
	if err != nil {
		return nil, err
	}
	if err := scope.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// FunctionArn returns the invoked function
func (t *LambdaInvoke) FunctionArn() string {
	return t.props.FunctionArn
}

// ToStateJSON renders the task. A new object is built on every call
func (t *LambdaInvoke) ToStateJSON() (api.StateJSON, error) {
	res := t.RenderTask()

	if t.props.PayloadResponseOnly {
		res[api.KeyResource] = t.props.FunctionArn
		if t.props.Payload.IsSet() {
			params, err := api.RenderObject(t.props.Payload.object)
			if err != nil {
				return nil, err
			}
			res[api.KeyParameters] = params
		}
		return res, nil
	}

	res[api.KeyResource] = t.integrationArn()
	params := map[string]any{
		"FunctionName": t.props.FunctionArn,
	}
	payload := t.props.Payload
	if !payload.IsSet() {
		payload = FromJSONPath("$")
	}
	if err := payload.render(params, "Payload"); err != nil {
		return nil, err
	}
	if t.props.InvocationType != "" {
		params["InvocationType"] = string(t.props.InvocationType)
	}
	if t.props.ClientContext != "" {
		params["ClientContext"] = t.props.ClientContext
	}
	if t.props.Qualifier != "" {
		params["Qualifier"] = t.props.Qualifier
	}
	res[api.KeyParameters] = params
	return res, nil
}

func (t *LambdaInvoke) integrationArn() string {
	arn := fmt.Sprintf("arn:%s:states:::lambda:invoke", t.partition)
	if t.props.IntegrationPattern == WaitForTaskToken {
		arn += ".waitForTaskToken"
	}
	return arn
}

func validateLambdaProps(props *LambdaInvokeProps) error {
	if props.FunctionArn == "" {
		return ErrFunctionArnRequired
	}

	if props.IntegrationPattern == "" {
		props.IntegrationPattern = RequestResponse
	}
	switch props.IntegrationPattern {
	case RequestResponse:
	case WaitForTaskToken:
		if props.PayloadResponseOnly {
			return fmt.Errorf("%w: %s with payload response only",
				ErrUnsupportedPattern, props.IntegrationPattern)
		}
		if !props.Payload.mentions(api.TaskToken) {
			return ErrTaskTokenRequired
		}
	default:
		return fmt.Errorf("%w: %s",
			ErrUnsupportedPattern, props.IntegrationPattern)
	}

	switch props.InvocationType {
	case "", InvocationRequestResponse, InvocationEvent, InvocationDryRun:
	default:
		return fmt.Errorf("%w: %s",
			ErrInvalidInvocationType, props.InvocationType)
	}

	if props.PayloadResponseOnly && props.Payload.IsSet() &&
		props.Payload.kind != inputObject {
		return ErrUnsupportedPayloadKind
	}
	return nil
}
