package api

import (
	"maps"
	"strings"
)

type (
	// StateJSON is one rendered state of a workflow definition
	StateJSON map[string]any

	// Selector reshapes a task result before it is recorded. A nil Selector
	// is absent, a non-nil empty Selector is present
	Selector map[string]any

	// Path is a JSONPath reference into the state input or context object
	Path string

	// StateType is the ASL "Type" of a state
	StateType string
)

const (
	StateTypeTask    StateType = "Task"
	StateTypePass    StateType = "Pass"
	StateTypeWait    StateType = "Wait"
	StateTypeChoice  StateType = "Choice"
	StateTypeSucceed StateType = "Succeed"
	StateTypeFail    StateType = "Fail"
)

const (
	KeyType           = "Type"
	KeyComment        = "Comment"
	KeyNext           = "Next"
	KeyEnd            = "End"
	KeyResource       = "Resource"
	KeyParameters     = "Parameters"
	KeyInputPath      = "InputPath"
	KeyOutputPath     = "OutputPath"
	KeyResultPath     = "ResultPath"
	KeyResultSelector = "ResultSelector"
	KeyRetry          = "Retry"
	KeyCatch          = "Catch"
	KeyTimeout        = "TimeoutSeconds"
	KeyHeartbeat      = "HeartbeatSeconds"

	// PathSuffix marks a field whose value is a JSONPath
	PathSuffix = ".$"

	// TaskToken is the context object path holding the callback token
	TaskToken Path = "$$.Task.Token"
)

// Set creates a new StateJSON with the specified key-value pair added
func (s StateJSON) Set(key string, value any) StateJSON {
	if s == nil {
		return StateJSON{key: value}
	}
	res := maps.Clone(s)
	res[key] = value
	return res
}

// Clone returns a deep copy of the state
func (s StateJSON) Clone() StateJSON {
	if s == nil {
		return nil
	}
	return StateJSON(cloneMap(s))
}

// Clone returns a deep copy of the selector, keeping a nil selector nil and
// an empty selector empty
func (s Selector) Clone() Selector {
	if s == nil {
		return nil
	}
	return Selector(cloneMap(s))
}

// CloneObject returns a deep copy of a payload or parameters template
func CloneObject(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	return cloneMap(obj)
}

// IsContext reports whether the path refers to the context object
func (p Path) IsContext() bool {
	return strings.HasPrefix(string(p), "$$")
}

// IsPathKey reports whether a field name carries the JSONPath suffix
func IsPathKey(key string) bool {
	return strings.HasSuffix(key, PathSuffix)
}

func cloneMap(m map[string]any) map[string]any {
	res := make(map[string]any, len(m))
	for k, v := range m {
		res[k] = cloneValue(v)
	}
	return res
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case StateJSON:
		return v.Clone()
	case Selector:
		return v.Clone()
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = cloneValue(e)
		}
		return res
	case []StateJSON:
		res := make([]StateJSON, len(v))
		for i, e := range v {
			res[i] = e.Clone()
		}
		return res
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
