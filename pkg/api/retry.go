package api

import (
	"errors"
	"fmt"
)

type (
	// Retry is a retry policy attached to a Task or Parallel state
	Retry struct {
		ErrorEquals     []string `json:"ErrorEquals"`
		IntervalSeconds int      `json:"IntervalSeconds,omitempty"`
		MaxAttempts     *int     `json:"MaxAttempts,omitempty"`
		BackoffRate     float64  `json:"BackoffRate,omitempty"`
	}

	// Catch is an error handler attached to a Task state. Next names the
	// state that handles the error
	Catch struct {
		ErrorEquals []string `json:"ErrorEquals"`
		ResultPath  Path     `json:"ResultPath,omitempty"`
		Next        string   `json:"Next"`
	}
)

const (
	ErrorsAll           = "States.ALL"
	ErrorsTimeout       = "States.Timeout"
	ErrorsTaskFailed    = "States.TaskFailed"
	ErrorsPermissions   = "States.Permissions"
	ErrorsLambdaService = "Lambda.ServiceException"
	ErrorsLambdaAWS     = "Lambda.AWSLambdaException"
	ErrorsLambdaSDK     = "Lambda.SdkClientException"
)

var (
	ErrErrorEqualsEmpty   = errors.New("error equals empty")
	ErrErrorsAllNotAlone  = errors.New("States.ALL must appear alone")
	ErrInvalidMaxAttempts = errors.New("max attempts cannot be negative")
	ErrInvalidBackoffRate = errors.New("backoff rate must be >= 1.0")
	ErrInvalidInterval    = errors.New("interval seconds cannot be negative")
	ErrCatchNextEmpty     = errors.New("catch next empty")
)

// Attempts returns a pointer suitable for Retry.MaxAttempts, which needs to
// tell an explicit zero apart from the default
func Attempts(n int) *int {
	return &n
}

// Validate checks the retry policy
func (r Retry) Validate() error {
	if err := validateErrorEquals(r.ErrorEquals); err != nil {
		return err
	}
	if r.IntervalSeconds < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.IntervalSeconds)
	}
	if r.MaxAttempts != nil && *r.MaxAttempts < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, *r.MaxAttempts)
	}
	if r.BackoffRate != 0 && r.BackoffRate < 1.0 {
		return fmt.Errorf("%w: %g", ErrInvalidBackoffRate, r.BackoffRate)
	}
	return nil
}

// Render returns the retry policy as it appears in a state's Retry list
func (r Retry) Render() StateJSON {
	res := StateJSON{
		"ErrorEquals": append([]string(nil), r.ErrorEquals...),
	}
	if r.IntervalSeconds != 0 {
		res["IntervalSeconds"] = r.IntervalSeconds
	}
	if r.MaxAttempts != nil {
		res["MaxAttempts"] = *r.MaxAttempts
	}
	if r.BackoffRate != 0 {
		res["BackoffRate"] = r.BackoffRate
	}
	return res
}

// Validate checks the catch handler
func (c Catch) Validate() error {
	if err := validateErrorEquals(c.ErrorEquals); err != nil {
		return err
	}
	if c.Next == "" {
		return ErrCatchNextEmpty
	}
	return nil
}

// Render returns the handler as it appears in a state's Catch list
func (c Catch) Render() StateJSON {
	res := StateJSON{
		"ErrorEquals": append([]string(nil), c.ErrorEquals...),
		KeyNext:       c.Next,
	}
	if c.ResultPath != "" {
		res[KeyResultPath] = string(c.ResultPath)
	}
	return res
}

func validateErrorEquals(errs []string) error {
	if len(errs) == 0 {
		return ErrErrorEqualsEmpty
	}
	for _, e := range errs {
		if e == "" {
			return ErrErrorEqualsEmpty
		}
		if e == ErrorsAll && len(errs) > 1 {
			return ErrErrorsAllNotAlone
		}
	}
	return nil
}
