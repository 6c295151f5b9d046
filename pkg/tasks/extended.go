package tasks

import (
	"errors"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/states"
)

type (
	// ExtendedInvokeProps are LambdaInvokeProps plus a result selector
	ExtendedInvokeProps struct {
		LambdaInvokeProps

		// ResultSelector reshapes the raw Lambda result before ResultPath
		// is applied, dropping the invocation metadata. Nil leaves the
		// field out; an empty selector is still rendered
		ResultSelector api.Selector
	}

	// ExtendedInvoke is a Lambda invoke task that can render a
	// ResultSelector field. Everything else is rendered by the wrapped
	// LambdaInvoke
	ExtendedInvoke struct {
		*LambdaInvoke
		resultSelector api.Selector
	}
)

var ErrBaseTaskRequired = errors.New("base task required")

// BuildExtendedInvoke creates an extended task that is not yet registered
// with scope. Errors from the base task are returned unchanged
func BuildExtendedInvoke(
	scope states.Scope, id string, props ExtendedInvokeProps,
) (*ExtendedInvoke, error) {
	base, err := BuildLambdaInvoke(scope, id, props.LambdaInvokeProps)
	if err != nil {
		return nil, err
	}
	return Extend(base, props.ResultSelector)
}

// NewExtendedInvoke creates an extended task and registers it with scope
func NewExtendedInvoke(
	scope states.Scope, id string, props ExtendedInvokeProps,
) (*ExtendedInvoke, error) {
	t, err := BuildExtendedInvoke(scope, id, props)
	if err != nil {
		return nil, err
	}
	if err := scope.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Extend wraps an unregistered base task. The selector is copied, so later
// changes to the caller's map are not seen
func Extend(base *LambdaInvoke, sel api.Selector) (*ExtendedInvoke, error) {
	if base == nil {
		return nil, ErrBaseTaskRequired
	}
	return &ExtendedInvoke{
		LambdaInvoke:   base,
		resultSelector: sel.Clone(),
	}, nil
}

// ResultSelector returns a copy of the stored selector and whether one was
// provided
func (t *ExtendedInvoke) ResultSelector() (api.Selector, bool) {
	return t.resultSelector.Clone(), t.resultSelector != nil
}

// ToStateJSON renders the base task and adds ResultSelector when present
func (t *ExtendedInvoke) ToStateJSON() (api.StateJSON, error) {
	res, err := t.LambdaInvoke.ToStateJSON()
	if err != nil {
		return nil, err
	}
	if t.resultSelector != nil {
		res[api.KeyResultSelector] = t.resultSelector.Clone()
	}
	return res, nil
}
