package states

import (
	"errors"
	"fmt"
	"slices"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

type (
	// TaskProps holds the fields common to every Task state
	TaskProps struct {
		Comment          string
		InputPath        api.Path
		OutputPath       api.Path
		ResultPath       api.Path
		TimeoutSeconds   int
		HeartbeatSeconds int
	}

	// TaskBase implements the parts of a Task state that do not depend on
	// the integrated service. Service tasks embed it and add Resource and
	// Parameters
	TaskBase struct {
		Transition
		id      string
		props   TaskProps
		retries []api.Retry
		catches []api.Catch
	}
)

var (
	ErrInvalidTimeout   = errors.New("timeout seconds cannot be negative")
	ErrInvalidHeartbeat = errors.New("heartbeat must be less than timeout")
)

// NewTaskBase validates the common task fields
func NewTaskBase(id string, props TaskProps) (TaskBase, error) {
	if id == "" {
		return TaskBase{}, ErrStateIDEmpty
	}
	if props.TimeoutSeconds < 0 {
		return TaskBase{}, fmt.Errorf("%w: %d",
			ErrInvalidTimeout, props.TimeoutSeconds)
	}
	if props.HeartbeatSeconds < 0 {
		return TaskBase{}, fmt.Errorf("%w: %d",
			ErrInvalidTimeout, props.HeartbeatSeconds)
	}
	if props.HeartbeatSeconds > 0 && props.TimeoutSeconds > 0 &&
		props.HeartbeatSeconds >= props.TimeoutSeconds {
		return TaskBase{}, fmt.Errorf("%w: %d >= %d", ErrInvalidHeartbeat,
			props.HeartbeatSeconds, props.TimeoutSeconds)
	}
	return TaskBase{
		id:    id,
		props: props,
	}, nil
}

// ID returns the state's ID
func (t *TaskBase) ID() string {
	return t.id
}

// AddRetry appends a retry policy. Policies are evaluated in the order they
// were added
func (t *TaskBase) AddRetry(r api.Retry) error {
	if err := r.Validate(); err != nil {
		return err
	}
	t.retries = append(t.retries, r)
	return nil
}

// AddCatch appends an error handler that transitions to handler
func (t *TaskBase) AddCatch(handler State, c api.Catch) error {
	if handler == nil {
		return ErrStateNil
	}
	c.Next = handler.ID()
	if err := c.Validate(); err != nil {
		return err
	}
	c.ErrorEquals = slices.Clone(c.ErrorEquals)
	t.catches = append(t.catches, c)
	return nil
}

// Targets returns the next state and every catch handler
func (t *TaskBase) Targets() []string {
	res := t.Transition.Targets()
	for _, c := range t.catches {
		res = append(res, c.Next)
	}
	return res
}

// RenderTask renders the service-independent Task fields into a new state
func (t *TaskBase) RenderTask() api.StateJSON {
	res := api.StateJSON{
		api.KeyType: string(api.StateTypeTask),
	}
	t.RenderTransition(res)

	if len(t.retries) > 0 {
		retries := make([]any, 0, len(t.retries))
		for _, r := range t.retries {
			retries = append(retries, map[string]any(r.Render()))
		}
		res[api.KeyRetry] = retries
	}
	if len(t.catches) > 0 {
		catches := make([]any, 0, len(t.catches))
		for _, c := range t.catches {
			catches = append(catches, map[string]any(c.Render()))
		}
		res[api.KeyCatch] = catches
	}

	setIfNotEmpty(res, api.KeyComment, t.props.Comment)
	setIfNotEmpty(res, api.KeyInputPath, t.props.InputPath)
	setIfNotEmpty(res, api.KeyOutputPath, t.props.OutputPath)
	setIfNotEmpty(res, api.KeyResultPath, t.props.ResultPath)
	if t.props.TimeoutSeconds > 0 {
		res[api.KeyTimeout] = t.props.TimeoutSeconds
	}
	if t.props.HeartbeatSeconds > 0 {
		res[api.KeyHeartbeat] = t.props.HeartbeatSeconds
	}
	return res
}
