package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/states"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/tasks"
)

type (
	// Options controls how a document is turned into a definition
	Options struct {
		Partition string
	}

	taskState interface {
		states.Chainable
		AddRetry(api.Retry) error
		AddCatch(states.State, api.Catch) error
	}

	loader struct {
		def  *states.Definition
		byID map[string]states.State
	}
)

var (
	ErrInvalidDocument    = errors.New("invalid workflow document")
	ErrUnknownStateType   = errors.New("unknown state type")
	ErrConditionAmbiguous = errors.New("condition has more than one operator")
	ErrNextNotAllowed     = errors.New("state type cannot have a next state")
)

// LoadFile reads and loads a workflow document from disk
func LoadFile(path string, opts Options) (*states.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, opts)
}

// Load parses a YAML or JSON workflow document and builds its definition
func Load(data []byte, opts Options) (*states.Definition, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Parse decodes a workflow document. Unknown fields are rejected
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Build constructs every state in doc, then wires transitions so states may
// refer to ones declared later
func Build(doc *Document, opts Options) (*states.Definition, error) {
	l := &loader{
		def: states.NewDefinition(states.DefinitionProps{
			Comment:        doc.Comment,
			TimeoutSeconds: doc.TimeoutSeconds,
			Partition:      opts.Partition,
		}),
		byID: map[string]states.State{},
	}

	for i := range doc.States {
		spec := &doc.States[i]
		s, err := l.construct(spec)
		if err != nil {
			return nil, stateError(spec.ID, err)
		}
		l.byID[spec.ID] = s
	}

	for i := range doc.States {
		spec := &doc.States[i]
		if err := l.wire(spec); err != nil {
			return nil, stateError(spec.ID, err)
		}
	}

	if doc.StartAt != "" {
		start, err := l.lookup(doc.StartAt)
		if err != nil {
			return nil, fmt.Errorf("startAt: %w", err)
		}
		if err := l.def.StartAt(start); err != nil {
			return nil, err
		}
	}
	return l.def, nil
}

func (l *loader) construct(spec *StateSpec) (states.State, error) {
	switch strings.ToLower(spec.Type) {
	case TypeLambda:
		return l.lambda(spec)
	case TypePass:
		return states.NewPass(l.def, spec.ID, states.PassProps{
			Comment:    spec.Comment,
			InputPath:  api.Path(spec.InputPath),
			OutputPath: api.Path(spec.OutputPath),
			ResultPath: api.Path(spec.ResultPath),
			Result:     normalizeValue(spec.Result),
			Parameters: toTemplate(NormalizeObject(spec.Parameters)),
		})
	case TypeWait:
		return states.NewWait(l.def, spec.ID, states.WaitProps{
			Comment:       spec.Comment,
			Seconds:       spec.Seconds,
			SecondsPath:   api.Path(spec.SecondsPath),
			Timestamp:     spec.Timestamp,
			TimestampPath: api.Path(spec.TimestampPath),
		})
	case TypeChoice:
		return states.NewChoice(l.def, spec.ID, states.ChoiceProps{
			Comment:    spec.Comment,
			InputPath:  api.Path(spec.InputPath),
			OutputPath: api.Path(spec.OutputPath),
		})
	case TypeSucceed:
		return states.NewSucceed(l.def, spec.ID, states.SucceedProps{
			Comment:    spec.Comment,
			InputPath:  api.Path(spec.InputPath),
			OutputPath: api.Path(spec.OutputPath),
		})
	case TypeFail:
		return states.NewFail(l.def, spec.ID, states.FailProps{
			Comment: spec.Comment,
			Error:   spec.Error,
			Cause:   spec.Cause,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStateType, spec.Type)
	}
}

func (l *loader) lambda(spec *StateSpec) (states.State, error) {
	props := tasks.LambdaInvokeProps{
		TaskProps: states.TaskProps{
			Comment:          spec.Comment,
			InputPath:        api.Path(spec.InputPath),
			OutputPath:       api.Path(spec.OutputPath),
			ResultPath:       api.Path(spec.ResultPath),
			TimeoutSeconds:   spec.TimeoutSeconds,
			HeartbeatSeconds: spec.HeartbeatSeconds,
		},
		FunctionArn:              spec.Function,
		PayloadResponseOnly:      spec.PayloadResponseOnly,
		InvocationType:           tasks.InvocationType(spec.InvocationType),
		Qualifier:                spec.Qualifier,
		RetryOnServiceExceptions: spec.RetryOnServiceExceptions,
	}
	if spec.WaitForTaskToken {
		props.IntegrationPattern = tasks.WaitForTaskToken
	}
	switch {
	case spec.Payload != nil && spec.PayloadPath != "":
		return nil, fmt.Errorf("%w: payload and payloadPath are exclusive",
			ErrInvalidDocument)
	case spec.Payload != nil:
		props.Payload = tasks.FromObject(
			toTemplate(NormalizeObject(spec.Payload)),
		)
	case spec.PayloadPath != "":
		props.Payload = tasks.FromJSONPath(api.Path(spec.PayloadPath))
	}

	var t taskState
	var err error
	if spec.ResultSelector != nil {
		sel := api.Selector(NormalizeObject(spec.ResultSelector))
		t, err = tasks.NewExtendedInvoke(l.def, spec.ID,
			tasks.ExtendedInvokeProps{
				LambdaInvokeProps: props,
				ResultSelector:    sel,
			},
		)
	} else {
		t, err = tasks.NewLambdaInvoke(l.def, spec.ID, props)
	}
	if err != nil {
		return nil, err
	}

	for _, r := range spec.Retry {
		if err := t.AddRetry(api.Retry{
			ErrorEquals:     r.ErrorEquals,
			IntervalSeconds: r.IntervalSeconds,
			MaxAttempts:     r.MaxAttempts,
			BackoffRate:     r.BackoffRate,
		}); err != nil {
			return nil, fmt.Errorf("retry: %w", err)
		}
	}
	return t, nil
}

func (l *loader) wire(spec *StateSpec) error {
	s := l.byID[spec.ID]

	if spec.Next != "" {
		c, ok := s.(states.Chainable)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNextNotAllowed, spec.Type)
		}
		target, err := l.lookup(spec.Next)
		if err != nil {
			return err
		}
		if err := c.SetNext(target); err != nil {
			return err
		}
	}

	if t, ok := s.(taskState); ok {
		for _, c := range spec.Catch {
			target, err := l.lookup(c.Next)
			if err != nil {
				return fmt.Errorf("catch: %w", err)
			}
			if err := t.AddCatch(target, api.Catch{
				ErrorEquals: c.ErrorEquals,
				ResultPath:  api.Path(c.ResultPath),
			}); err != nil {
				return fmt.Errorf("catch: %w", err)
			}
		}
	}

	if c, ok := s.(*states.Choice); ok {
		for i, rule := range spec.Choices {
			cond, err := rule.ConditionSpec.build()
			if err != nil {
				return fmt.Errorf("choice %d: %w", i, err)
			}
			target, err := l.lookup(rule.Next)
			if err != nil {
				return fmt.Errorf("choice %d: %w", i, err)
			}
			c.When(cond, target)
		}
		if spec.Default != "" {
			target, err := l.lookup(spec.Default)
			if err != nil {
				return fmt.Errorf("default: %w", err)
			}
			c.Otherwise(target)
		}
	}
	return nil
}

func (l *loader) lookup(id string) (states.State, error) {
	s, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", states.ErrUnknownState, id)
	}
	return s, nil
}

func (c ConditionSpec) build() (states.Condition, error) {
	v := api.Path(c.Variable)
	var res []states.Condition
	if c.StringEquals != nil {
		res = append(res, states.StringEquals(v, *c.StringEquals))
	}
	if c.NumericEquals != nil {
		res = append(res, states.NumericEquals(v, *c.NumericEquals))
	}
	if c.NumericGreaterThan != nil {
		res = append(res, states.NumericGreaterThan(v, *c.NumericGreaterThan))
	}
	if c.BooleanEquals != nil {
		res = append(res, states.BooleanEquals(v, *c.BooleanEquals))
	}
	if c.IsPresent != nil {
		res = append(res, states.IsPresent(v, *c.IsPresent))
	}
	if len(c.And) > 0 {
		sub, err := buildAll(c.And)
		if err != nil {
			return states.Condition{}, err
		}
		res = append(res, states.And(sub...))
	}
	if len(c.Or) > 0 {
		sub, err := buildAll(c.Or)
		if err != nil {
			return states.Condition{}, err
		}
		res = append(res, states.Or(sub...))
	}
	if c.Not != nil {
		sub, err := c.Not.build()
		if err != nil {
			return states.Condition{}, err
		}
		res = append(res, states.Not(sub))
	}

	switch len(res) {
	case 0:
		return states.Condition{}, states.ErrConditionEmpty
	case 1:
		return res[0], nil
	default:
		return states.Condition{}, ErrConditionAmbiguous
	}
}

func buildAll(specs []ConditionSpec) ([]states.Condition, error) {
	res := make([]states.Condition, 0, len(specs))
	for _, s := range specs {
		c, err := s.build()
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

// toTemplate turns "key.$" string fields into api.Path values so the task
// can see which paths a payload references
func toTemplate(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	res := make(map[string]any, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok && api.IsPathKey(k) {
			res[strings.TrimSuffix(k, api.PathSuffix)] = api.Path(s)
			continue
		}
		res[k] = templateValue(v)
	}
	return res
}

func templateValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return toTemplate(v)
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = templateValue(e)
		}
		return res
	default:
		return v
	}
}

func stateError(id string, err error) error {
	if id == "" {
		return err
	}
	return fmt.Errorf("state %q: %w", id, err)
}
