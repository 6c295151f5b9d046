package states

import (
	"errors"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

type (
	// WaitProps configures a Wait state. Exactly one of the time fields
	// must be set
	WaitProps struct {
		Comment       string
		Seconds       int
		SecondsPath   api.Path
		Timestamp     string
		TimestampPath api.Path
	}

	// Wait delays the workflow before continuing
	Wait struct {
		Transition
		id    string
		props WaitProps
	}
)

var ErrWaitTimeRequired = errors.New(
	"wait requires exactly one of seconds or timestamp",
)

// NewWait constructs a Wait state in scope
func NewWait(scope Scope, id string, props WaitProps) (*Wait, error) {
	if id == "" {
		return nil, ErrStateIDEmpty
	}
	set := 0
	if props.Seconds > 0 {
		set++
	}
	for _, s := range []string{
		string(props.SecondsPath), props.Timestamp,
		string(props.TimestampPath),
	} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrWaitTimeRequired
	}
	return register(scope, &Wait{id: id, props: props})
}

func (w *Wait) ID() string {
	return w.id
}

func (w *Wait) ToStateJSON() (api.StateJSON, error) {
	res := api.StateJSON{api.KeyType: string(api.StateTypeWait)}
	w.RenderTransition(res)
	setIfNotEmpty(res, api.KeyComment, w.props.Comment)
	if w.props.Seconds > 0 {
		res["Seconds"] = w.props.Seconds
	}
	setIfNotEmpty(res, "SecondsPath", w.props.SecondsPath)
	setIfNotEmpty(res, "Timestamp", w.props.Timestamp)
	setIfNotEmpty(res, "TimestampPath", w.props.TimestampPath)
	return res, nil
}
