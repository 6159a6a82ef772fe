package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/curvelab/backend/internal/shared/types"
)

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}

// getString extracts a required string parameter
func getString(params map[string]interface{}, key string) (string, error) {
	raw, present := params[key]
	if !present {
		return "", fmt.Errorf("%s parameter required", key)
	}
	s, isString := raw.(string)
	if !isString || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}

// getFloat extracts a numeric parameter, accepting JSON and Go numbers
func getFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// getBindings extracts the optional parameters map as name to value
func getBindings(params map[string]interface{}) (map[string]float64, error) {
	raw, present := params["parameters"]
	if !present || raw == nil {
		return nil, nil
	}
	m, isMap := raw.(map[string]interface{})
	if !isMap {
		return nil, fmt.Errorf("parameters must be an object of numeric values")
	}
	out := make(map[string]float64, len(m))
	for name, rv := range m {
		v, numeric := getFloat(rv)
		if !numeric {
			return nil, fmt.Errorf("parameter %q must be numeric", name)
		}
		out[name] = v
	}
	return out, nil
}

// toMap flattens any JSON-serializable value into a generic map
func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
