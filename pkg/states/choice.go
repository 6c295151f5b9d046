package states

import (
	"errors"
	"fmt"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

type (
	// Condition is a choice rule comparison
	Condition struct {
		rule map[string]any
	}

	// ChoiceProps configures a Choice state
	ChoiceProps struct {
		Comment    string
		InputPath  api.Path
		OutputPath api.Path
	}

	// Choice branches to the first rule whose condition matches, or to the
	// default state when none does
	Choice struct {
		id        string
		props     ChoiceProps
		rules     []choiceRule
		otherwise string
	}

	choiceRule struct {
		cond Condition
		next string
	}
)

var (
	ErrChoiceNoRules  = errors.New("choice requires at least one rule")
	ErrConditionEmpty = errors.New("condition empty")
)

// NewChoice constructs a Choice state in scope
func NewChoice(scope Scope, id string, props ChoiceProps) (*Choice, error) {
	if id == "" {
		return nil, ErrStateIDEmpty
	}
	return register(scope, &Choice{id: id, props: props})
}

// When adds a rule that transitions to next when cond matches
func (c *Choice) When(cond Condition, next State) *Choice {
	c.rules = append(c.rules, choiceRule{
		cond: cond,
		next: stateTarget(next),
	})
	return c
}

// Otherwise sets the default state
func (c *Choice) Otherwise(next State) *Choice {
	c.otherwise = stateTarget(next)
	return c
}

func (c *Choice) ID() string {
	return c.id
}

// Targets returns every state a rule or the default can transition to
func (c *Choice) Targets() []string {
	res := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		res = append(res, r.next)
	}
	if c.otherwise != "" {
		res = append(res, c.otherwise)
	}
	return res
}

func (c *Choice) ToStateJSON() (api.StateJSON, error) {
	if len(c.rules) == 0 {
		return nil, ErrChoiceNoRules
	}
	choices := make([]any, 0, len(c.rules))
	for i, r := range c.rules {
		if r.cond.rule == nil {
			return nil, fmt.Errorf("%w: rule %d", ErrConditionEmpty, i)
		}
		if r.next == "" {
			return nil, fmt.Errorf("%w: rule %d", ErrStateIDEmpty, i)
		}
		rule := r.cond.Render()
		rule[api.KeyNext] = r.next
		choices = append(choices, rule)
	}

	res := api.StateJSON{
		api.KeyType: string(api.StateTypeChoice),
		"Choices":   choices,
	}
	setIfNotEmpty(res, "Default", c.otherwise)
	setIfNotEmpty(res, api.KeyComment, c.props.Comment)
	setIfNotEmpty(res, api.KeyInputPath, c.props.InputPath)
	setIfNotEmpty(res, api.KeyOutputPath, c.props.OutputPath)
	return res, nil
}

// Render returns a copy of the rule's comparison fields
func (c Condition) Render() map[string]any {
	res := make(map[string]any, len(c.rule))
	for k, v := range c.rule {
		switch v := v.(type) {
		case []any:
			res[k] = renderConditions(v)
		case Condition:
			res[k] = v.Render()
		default:
			res[k] = v
		}
	}
	return res
}

// StringEquals matches when the variable equals value
func StringEquals(variable api.Path, value string) Condition {
	return compare(variable, "StringEquals", value)
}

// NumericEquals matches when the variable equals value
func NumericEquals(variable api.Path, value float64) Condition {
	return compare(variable, "NumericEquals", value)
}

// NumericGreaterThan matches when the variable is greater than value
func NumericGreaterThan(variable api.Path, value float64) Condition {
	return compare(variable, "NumericGreaterThan", value)
}

// BooleanEquals matches when the variable equals value
func BooleanEquals(variable api.Path, value bool) Condition {
	return compare(variable, "BooleanEquals", value)
}

// IsPresent matches when the variable's presence equals present
func IsPresent(variable api.Path, present bool) Condition {
	return compare(variable, "IsPresent", present)
}

// And matches when every condition matches
func And(conds ...Condition) Condition {
	return combine("And", conds)
}

// Or matches when any condition matches
func Or(conds ...Condition) Condition {
	return combine("Or", conds)
}

// Not matches when cond does not
func Not(cond Condition) Condition {
	return Condition{rule: map[string]any{"Not": cond}}
}

func compare(variable api.Path, op string, value any) Condition {
	return Condition{rule: map[string]any{
		"Variable": string(variable),
		op:         value,
	}}
}

func combine(op string, conds []Condition) Condition {
	list := make([]any, 0, len(conds))
	for _, c := range conds {
		list = append(list, c)
	}
	return Condition{rule: map[string]any{op: list}}
}

func renderConditions(list []any) []any {
	res := make([]any, 0, len(list))
	for _, e := range list {
		if c, ok := e.(Condition); ok {
			res = append(res, c.Render())
			continue
		}
		res = append(res, e)
	}
	return res
}

func stateTarget(s State) string {
	if s == nil {
		return ""
	}
	return s.ID()
}
