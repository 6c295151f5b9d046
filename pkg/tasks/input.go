package tasks

import "github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"

type (
	// TaskInput is the payload handed to an integrated service
	TaskInput struct {
		path   api.Path
		object map[string]any
		text   string
		kind   inputKind
	}

	inputKind int
)

const (
	inputNone inputKind = iota
	inputPath
	inputObject
	inputText
)

// FromJSONPath uses the value found at path as the payload
func FromJSONPath(path api.Path) TaskInput {
	return TaskInput{kind: inputPath, path: path}
}

// FromObject uses a template object as the payload. Fields holding an
// api.Path are resolved at run time. The object is copied, so later changes
// to it are not seen
func FromObject(obj map[string]any) TaskInput {
	return TaskInput{kind: inputObject, object: api.CloneObject(obj)}
}

// FromText uses a literal string as the payload
func FromText(text string) TaskInput {
	return TaskInput{kind: inputText, text: text}
}

// IsSet reports whether the input was provided
func (i TaskInput) IsSet() bool {
	return i.kind != inputNone
}

// render writes the input under key, using the ".$" form for paths
func (i TaskInput) render(res map[string]any, key string) error {
	switch i.kind {
	case inputPath:
		res[key+api.PathSuffix] = string(i.path)
	case inputObject:
		obj, err := api.RenderObject(i.object)
		if err != nil {
			return err
		}
		if obj == nil {
			obj = map[string]any{}
		}
		res[key] = obj
	case inputText:
		res[key] = i.text
	}
	return nil
}

// mentions reports whether the input refers to path anywhere
func (i TaskInput) mentions(path api.Path) bool {
	switch i.kind {
	case inputPath:
		return i.path == path
	case inputObject:
		return containsPath(i.object, path)
	case inputText:
		return i.text == string(path)
	default:
		return false
	}
}

func containsPath(v any, path api.Path) bool {
	switch v := v.(type) {
	case api.Path:
		return v == path
	case map[string]any:
		for _, e := range v {
			if containsPath(e, path) {
				return true
			}
		}
	case []any:
		for _, e := range v {
			if containsPath(e, path) {
				return true
			}
		}
	}
	return false
}
