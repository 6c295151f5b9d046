package states

import (
	"encoding/json"
	"fmt"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

type (
	// DefinitionProps configures a state machine definition
	DefinitionProps struct {
		Comment        string
		TimeoutSeconds int
		Partition      string
	}

	// Definition is the scope that owns a state machine's states
	Definition struct {
		states  map[string]State
		props   DefinitionProps
		order   []string
		startAt string
	}
)

// DefaultPartition is used when no partition is configured
const DefaultPartition = "aws"

// NewDefinition creates an empty definition
func NewDefinition(props DefinitionProps) *Definition {
	if props.Partition == "" {
		props.Partition = DefaultPartition
	}
	return &Definition{
		states: map[string]State{},
		props:  props,
	}
}

// Partition returns the AWS partition resources are rendered for
func (d *Definition) Partition() string {
	return d.props.Partition
}

// Add registers a state under its ID
func (d *Definition) Add(s State) error {
	if s == nil {
		return ErrStateNil
	}
	id := s.ID()
	if id == "" {
		return ErrStateIDEmpty
	}
	if _, ok := d.states[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateState, id)
	}
	d.states[id] = s
	d.order = append(d.order, id)
	return nil
}

// State returns the state registered under id
func (d *Definition) State(id string) (State, bool) {
	s, ok := d.states[id]
	return s, ok
}

// States returns the registered states in registration order
func (d *Definition) States() []State {
	res := make([]State, 0, len(d.order))
	for _, id := range d.order {
		res = append(res, d.states[id])
	}
	return res
}

// StartAt selects the state the workflow starts in. Without a call to
// StartAt the first registered state is used
func (d *Definition) StartAt(s State) error {
	if s == nil {
		return ErrStateNil
	}
	if _, ok := d.states[s.ID()]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, s.ID())
	}
	d.startAt = s.ID()
	return nil
}

// Chain wires each state to the one following it
func (d *Definition) Chain(states ...State) error {
	for i := 0; i+1 < len(states); i++ {
		c, ok := states[i].(Chainable)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotChainable, stateID(states[i]))
		}
		if err := c.SetNext(states[i+1]); err != nil {
			return fmt.Errorf("%s: %w", c.ID(), err)
		}
	}
	return nil
}

// Render validates the definition and returns the state machine document
func (d *Definition) Render() (api.StateJSON, error) {
	if len(d.order) == 0 {
		return nil, ErrNoStates
	}

	startAt := d.startAt
	if startAt == "" {
		startAt = d.order[0]
	}

	rendered := make(map[string]any, len(d.order))
	for _, id := range d.order {
		s := d.states[id]
		if r, ok := s.(Referrer); ok {
			for _, target := range r.Targets() {
				if _, ok := d.states[target]; !ok {
					return nil, fmt.Errorf("%w: %s (from %s)",
						ErrUnknownState, target, id)
				}
			}
		}
		js, err := s.ToStateJSON()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		rendered[id] = js
	}

	res := api.StateJSON{
		"StartAt": startAt,
		"States":  rendered,
	}
	setIfNotEmpty(res, api.KeyComment, d.props.Comment)
	if d.props.TimeoutSeconds > 0 {
		res[api.KeyTimeout] = d.props.TimeoutSeconds
	}
	return res, nil
}

// ToJSON renders the definition and marshals it. Keys are emitted in sorted
// order, so output is stable across runs
func (d *Definition) ToJSON(indent bool) ([]byte, error) {
	doc, err := d.Render()
	if err != nil {
		return nil, err
	}
	if indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func stateID(s State) string {
	if s == nil {
		return "<nil>"
	}
	return s.ID()
}
