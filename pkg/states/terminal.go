package states

import "github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"

type (
	// SucceedProps configures a Succeed state
	SucceedProps struct {
		Comment    string
		InputPath  api.Path
		OutputPath api.Path
	}

	// Succeed stops the workflow successfully
	Succeed struct {
		id    string
		props SucceedProps
	}

	// FailProps configures a Fail state
	FailProps struct {
		Comment string
		Error   string
		Cause   string
	}

	// Fail stops the workflow and marks it failed
	Fail struct {
		id    string
		props FailProps
	}
)

// NewSucceed constructs a Succeed state in scope
func NewSucceed(scope Scope, id string, props SucceedProps) (*Succeed, error) {
	if id == "" {
		return nil, ErrStateIDEmpty
	}
	return register(scope, &Succeed{id: id, props: props})
}

func (s *Succeed) ID() string {
	return s.id
}

func (s *Succeed) ToStateJSON() (api.StateJSON, error) {
	res := api.StateJSON{api.KeyType: string(api.StateTypeSucceed)}
	setIfNotEmpty(res, api.KeyComment, s.props.Comment)
	setIfNotEmpty(res, api.KeyInputPath, s.props.InputPath)
	setIfNotEmpty(res, api.KeyOutputPath, s.props.OutputPath)
	return res, nil
}

// NewFail constructs a Fail state in scope
func NewFail(scope Scope, id string, props FailProps) (*Fail, error) {
	if id == "" {
		return nil, ErrStateIDEmpty
	}
	return register(scope, &Fail{id: id, props: props})
}

func (f *Fail) ID() string {
	return f.id
}

func (f *Fail) ToStateJSON() (api.StateJSON, error) {
	res := api.StateJSON{api.KeyType: string(api.StateTypeFail)}
	setIfNotEmpty(res, api.KeyComment, f.props.Comment)
	setIfNotEmpty(res, "Error", f.props.Error)
	setIfNotEmpty(res, "Cause", f.props.Cause)
	return res, nil
}
