package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Argument decoding for model-produced tool calls. Arguments arrive as a
// map[string]any decoded from the provider's JSON, so numbers are float64
// and everything else is loosely typed. Providers occasionally send numbers
// as strings, which the decoders accept.

func intArg(args map[string]any, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument %s=%q is not an integer", key, v.String())
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("argument %s=%q is not an integer", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("argument %s must be an integer", key)
	}
}

func floatArg(args map[string]any, key string, def float64) (float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("argument %s=%q is not a number", key, v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %s=%q is not a number", key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %s must be a number", key)
	}
}

func stringArg(args map[string]any, key, def string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string", key)
	}
	return s, nil
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("argument %s=%q is not a boolean", key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("argument %s must be a boolean", key)
	}
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("argument %s must be a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		// Some providers flatten single-element lists to a bare string.
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("argument %s must be a list of strings", key)
	}
}
