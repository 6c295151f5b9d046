package workflow

import "fmt"

// NormalizeObject converts every nested mapping yaml.v3 decoded with
// non-string keys into a map[string]any, so the object can be rendered as
// JSON. A nil object stays nil and an empty one stays empty
func NormalizeObject(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	res := make(map[string]any, len(obj))
	for k, v := range obj {
		res[k] = normalizeValue(v)
	}
	return res
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return NormalizeObject(v)
	case map[any]any:
		res := make(map[string]any, len(v))
		for k, e := range v {
			res[fmt.Sprint(k)] = normalizeValue(e)
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = normalizeValue(e)
		}
		return res
	default:
		return v
	}
}
