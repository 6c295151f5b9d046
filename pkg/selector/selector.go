// Package selector previews how a result selector reshapes a task result
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/tidwall/gjson"

	"github.com/j-erickson/aws-security-hub-automated-response-and-remediation/pkg/api"
)

var (
	ErrInvalidPath   = errors.New("invalid JSONPath")
	ErrPathNotFound  = errors.New("JSONPath matched nothing")
	ErrPathNotString = errors.New("JSONPath field must be a string")
	ErrContextPath   = errors.New("context object paths cannot be previewed")
	ErrInvalidJSON   = errors.New("invalid JSON")
)

// Apply runs sel against a raw task result the way the service does: a
// field whose key ends in ".$" is renamed without the suffix and its value
// is taken from raw at the given path. Other fields are copied literally.
// A nil selector returns raw unchanged
func Apply(sel api.Selector, raw any) (any, error) {
	if sel == nil {
		return raw, nil
	}
	return applyObject(sel, raw)
}

// Validate parses every path in sel without evaluating it
func Validate(sel api.Selector) error {
	return walk(sel, func(key string, path api.Path) error {
		if path.IsContext() {
			return nil
		}
		if _, err := compile(path); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

// Evaluate returns the value at path in raw. Paths that can match more than
// one node always yield a list
func Evaluate(path api.Path, raw any) (any, error) {
	if path.IsContext() {
		return nil, fmt.Errorf("%w: %s", ErrContextPath, path)
	}
	x, err := compile(path)
	if err != nil {
		return nil, err
	}
	matches := x.Get(raw)
	if isDefinite(x) {
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return matches[0], nil
	}
	if matches == nil {
		return []any{}, nil
	}
	return matches, nil
}

// ParseResult decodes a sample task result
func ParseResult(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return gjson.ParseBytes(data).Value(), nil
}

func applyObject(obj map[string]any, raw any) (map[string]any, error) {
	res := make(map[string]any, len(obj))
	for k, v := range obj {
		if api.IsPathKey(k) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrPathNotString, k)
			}
			val, err := Evaluate(api.Path(s), raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			res[strings.TrimSuffix(k, api.PathSuffix)] = val
			continue
		}
		if nested, ok := asObject(v); ok {
			out, err := applyObject(nested, raw)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", k, err)
			}
			res[k] = out
			continue
		}
		res[k] = v
	}
	return res, nil
}

func walk(obj map[string]any, fn func(string, api.Path) error) error {
	for k, v := range obj {
		if api.IsPathKey(k) {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s", ErrPathNotString, k)
			}
			if err := fn(k, api.Path(s)); err != nil {
				return err
			}
			continue
		}
		if nested, ok := asObject(v); ok {
			if err := walk(nested, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func compile(path api.Path) (jp.Expr, error) {
	x, err := jp.ParseString(string(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return x, nil
}

func isDefinite(x jp.Expr) bool {
	for _, frag := range x {
		switch frag.(type) {
		case jp.Wildcard, jp.Descent, jp.Union, jp.Slice, *jp.Filter:
			return false
		}
	}
	return true
}

func asObject(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case api.Selector:
		return v, true
	default:
		return nil, false
	}
}
