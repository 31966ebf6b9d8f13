package games

import (
	"math"
	"strings"

	"github.com/openwager/engine/internal/wager"
)

// Param extraction helpers. Params come from JSON, so numbers may be
// float64 even when the game wants an int. Every failure wraps
// wager.ErrInvalidParameters so it is rejected before RNG consumption.

func paramFloat(params Params, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, wager.InvalidParamsf("missing %q", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, wager.InvalidParamsf("%q must be a number, got %T", key, raw)
	}
}

func paramInt(params Params, key string) (int, error) {
	f, err := paramFloat(params, key)
	if err != nil {
		return 0, err
	}
	if math.Mod(f, 1) != 0 {
		return 0, wager.InvalidParamsf("%q must be an integer, got %v", key, f)
	}
	return int(f), nil
}

func paramIntDefault(params Params, key string, def int) (int, error) {
	if params == nil {
		return def, nil
	}
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return paramInt(params, key)
}

func paramString(params Params, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", wager.InvalidParamsf("missing %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", wager.InvalidParamsf("%q must be a string, got %T", key, raw)
	}
	return strings.TrimSpace(s), nil
}

func paramStringDefault(params Params, key, def string) (string, error) {
	if params == nil {
		return def, nil
	}
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return paramString(params, key)
}

func paramIntSlice(params Params, key string) ([]int, error) {
	raw, ok := params[key]
	if !ok {
		return nil, wager.InvalidParamsf("missing %q", key)
	}
	switch v := raw.(type) {
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		return out, nil
	case []float64:
		out := make([]int, len(v))
		for i, f := range v {
			if math.Mod(f, 1) != 0 {
				return nil, wager.InvalidParamsf("%q[%d] must be an integer, got %v", key, i, f)
			}
			out[i] = int(f)
		}
		return out, nil
	case []any:
		out := make([]int, len(v))
		for i, e := range v {
			switch n := e.(type) {
			case float64:
				if math.Mod(n, 1) != 0 {
					return nil, wager.InvalidParamsf("%q[%d] must be an integer, got %v", key, i, n)
				}
				out[i] = int(n)
			case int:
				out[i] = n
			default:
				return nil, wager.InvalidParamsf("%q[%d] must be a number, got %T", key, i, e)
			}
		}
		return out, nil
	default:
		return nil, wager.InvalidParamsf("%q must be an array, got %T", key, raw)
	}
}
