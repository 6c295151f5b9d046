package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrPathInArray      = errors.New("JSONPath values cannot appear in arrays")
	ErrPathKeyConflict  = errors.New("field rendered twice")
)

// RenderObject renders a payload or parameters template into its ASL form.
// Fields holding a Path have the ".$" suffix appended to their key. Nested
// objects and arrays are rendered recursively
func RenderObject(obj map[string]any) (map[string]any, error) {
	if obj == nil {
		return nil, nil
	}
	res := make(map[string]any, len(obj))
	for k, v := range obj {
		key := k
		var val any
		if p, ok := v.(Path); ok {
			key = k + PathSuffix
			val = string(p)
		} else {
			rendered, err := renderValue(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			val = rendered
		}
		if _, ok := res[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPathKeyConflict, key)
		}
		res[key] = val
	}
	return res, nil
}

func renderValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case Path:
		return nil, ErrPathInArray
	case map[string]any:
		return RenderObject(v)
	case StateJSON:
		return RenderObject(v)
	case Selector:
		return RenderObject(v)
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			if _, ok := e.(Path); ok {
				return nil, ErrPathInArray
			}
			r, err := renderValue(e)
			if err != nil {
				return nil, err
			}
			res[i] = r
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
