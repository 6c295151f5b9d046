package states

import "github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"

type (
	// PassProps configures a Pass state
	PassProps struct {
		Comment    string
		InputPath  api.Path
		OutputPath api.Path
		ResultPath api.Path
		Result     any
		Parameters map[string]any
	}

	// Pass passes its input to its output, optionally injecting data
	Pass struct {
		Transition
		id    string
		props PassProps
	}
)

// NewPass constructs a Pass state in scope
func NewPass(scope Scope, id string, props PassProps) (*Pass, error) {
	if id == "" {
		return nil, ErrStateIDEmpty
	}
	return register(scope, &Pass{id: id, props: props})
}

func (p *Pass) ID() string {
	return p.id
}

func (p *Pass) ToStateJSON() (api.StateJSON, error) {
	res := api.StateJSON{api.KeyType: string(api.StateTypePass)}
	p.RenderTransition(res)
	setIfNotEmpty(res, api.KeyComment, p.props.Comment)
	setIfNotEmpty(res, api.KeyInputPath, p.props.InputPath)
	setIfNotEmpty(res, api.KeyOutputPath, p.props.OutputPath)
	setIfNotEmpty(res, api.KeyResultPath, p.props.ResultPath)
	if p.props.Result != nil {
		res["Result"] = p.props.Result
	}
	if p.props.Parameters != nil {
		params, err := api.RenderObject(p.props.Parameters)
		if err != nil {
			return nil, err
		}
		res[api.KeyParameters] = params
	}
	return res, nil
}
