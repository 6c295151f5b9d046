package states

import (
	"errors"
	"fmt"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

type (
	// State is a construct that renders one entry of a definition's States
	State interface {
		ID() string
		ToStateJSON() (api.StateJSON, error)
	}

	// Chainable is a State that transitions to a single next state
	Chainable interface {
		State
		SetNext(State) error
	}

	// Referrer is a State that names other states it may transition to
	Referrer interface {
		Targets() []string
	}

	// Scope owns the states of a definition and supplies partition details
	// needed by resources
	Scope interface {
		Add(State) error
		Partition() string
	}

	// Transition tracks the Next or End of a chainable state
	Transition struct {
		next string
	}
)

var (
	ErrStateIDEmpty   = errors.New("state ID empty")
	ErrStateNil       = errors.New("state is nil")
	ErrScopeNil       = errors.New("scope is nil")
	ErrNextAlreadySet = errors.New("state already has a next state")
	ErrDuplicateState = errors.New("state already exists")
	ErrUnknownState   = errors.New("unknown state")
	ErrNoStates       = errors.New("definition has no states")
	ErrNotChainable   = errors.New("state cannot be chained")
)

// SetNext sets the state to transition to. A state can only be given one
// next state
func (t *Transition) SetNext(s State) error {
	if s == nil {
		return ErrStateNil
	}
	id := s.ID()
	if id == "" {
		return ErrStateIDEmpty
	}
	if t.next != "" {
		return fmt.Errorf("%w: %s", ErrNextAlreadySet, t.next)
	}
	t.next = id
	return nil
}

// Next returns the ID of the next state, or empty if this state ends the
// workflow
func (t *Transition) Next() string {
	return t.next
}

// RenderTransition writes Next, or End when no next state is set
func (t *Transition) RenderTransition(res api.StateJSON) {
	if t.next != "" {
		res[api.KeyNext] = t.next
		return
	}
	res[api.KeyEnd] = true
}

// Targets returns the next state, if any
func (t *Transition) Targets() []string {
	if t.next == "" {
		return nil
	}
	return []string{t.next}
}

func register[T State](scope Scope, s T) (T, error) {
	if scope == nil {
		var zero T
		return zero, ErrScopeNil
	}
	if err := scope.Add(s); err != nil {
		var zero T
		return zero, err
	}
	return s, nil
}

func setIfNotEmpty[T ~string](res api.StateJSON, key string, value T) {
	if value != "" {
		res[key] = string(value)
	}
}
