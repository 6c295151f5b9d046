package workflow

type (
	// Document is a workflow described in YAML or JSON
	Document struct {
		Comment        string      `yaml:"comment"`
		TimeoutSeconds int         `yaml:"timeoutSeconds"`
		StartAt        string      `yaml:"startAt"`
		States         []StateSpec `yaml:"states"`
	}

	// StateSpec describes one state. Only the fields relevant to Type are
	// read
	StateSpec struct {
		ID      string `yaml:"id"`
		Type    string `yaml:"type"`
		Comment string `yaml:"comment"`
		Next    string `yaml:"next"`

		// lambda
		Function                 string         `yaml:"function"`
		Payload                  map[string]any `yaml:"payload"`
		PayloadPath              string         `yaml:"payloadPath"`
		PayloadResponseOnly      bool           `yaml:"payloadResponseOnly"`
		InvocationType           string         `yaml:"invocationType"`
		Qualifier                string         `yaml:"qualifier"`
		WaitForTaskToken         bool           `yaml:"waitForTaskToken"`
		RetryOnServiceExceptions *bool          `yaml:"retryOnServiceExceptions"`
		ResultSelector           map[string]any `yaml:"resultSelector"`
		HeartbeatSeconds         int            `yaml:"heartbeatSeconds"`
		Retry                    []RetrySpec    `yaml:"retry"`
		Catch                    []CatchSpec    `yaml:"catch"`

		// lambda, pass, choice, succeed
		InputPath  string `yaml:"inputPath"`
		OutputPath string `yaml:"outputPath"`

		// lambda, pass
		ResultPath string `yaml:"resultPath"`

		// lambda
		TimeoutSeconds int `yaml:"timeoutSeconds"`

		// pass
		Result     any            `yaml:"result"`
		Parameters map[string]any `yaml:"parameters"`

		// wait
		Seconds       int    `yaml:"seconds"`
		SecondsPath   string `yaml:"secondsPath"`
		Timestamp     string `yaml:"timestamp"`
		TimestampPath string `yaml:"timestampPath"`

		// choice
		Choices []ChoiceSpec `yaml:"choices"`
		Default string       `yaml:"default"`

		// fail
		Error string `yaml:"error"`
		Cause string `yaml:"cause"`
	}

	// RetrySpec describes a retry policy
	RetrySpec struct {
		ErrorEquals     []string `yaml:"errorEquals"`
		IntervalSeconds int      `yaml:"intervalSeconds"`
		MaxAttempts     *int     `yaml:"maxAttempts"`
		BackoffRate     float64  `yaml:"backoffRate"`
	}

	// CatchSpec describes an error handler
	CatchSpec struct {
		ErrorEquals []string `yaml:"errorEquals"`
		ResultPath  string   `yaml:"resultPath"`
		Next        string   `yaml:"next"`
	}

	// ChoiceSpec is one choice rule
	ChoiceSpec struct {
		ConditionSpec `yaml:",inline"`
		Next          string `yaml:"next"`
	}

	// ConditionSpec describes a comparison or a combination of them.
	// Exactly one operator may be set
	ConditionSpec struct {
		Variable           string          `yaml:"variable"`
		StringEquals       *string         `yaml:"stringEquals"`
		NumericEquals      *float64        `yaml:"numericEquals"`
		NumericGreaterThan *float64        `yaml:"numericGreaterThan"`
		BooleanEquals      *bool           `yaml:"booleanEquals"`
		IsPresent          *bool           `yaml:"isPresent"`
		And                []ConditionSpec `yaml:"and"`
		Or                 []ConditionSpec `yaml:"or"`
		Not                *ConditionSpec  `yaml:"not"`
	}
)

const (
	TypeLambda  = "lambda"
	TypePass    = "pass"
	TypeWait    = "wait"
	TypeChoice  = "choice"
	TypeSucceed = "succeed"
	TypeFail    = "fail"
)
