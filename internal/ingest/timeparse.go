package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParse is returned for time cells that cannot be read as elapsed seconds.
var ErrParse = errors.New("unparseable time")

// ParseSeconds converts a raw time cell into elapsed seconds.
// Numbers pass through unchanged; "H:M:S" and "M:S" are expanded; other text is read
// as a decimal with ',' accepted as the separator. Zero and negative results are
// returned as-is for the caller to filter.
func ParseSeconds(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("empty cell: %w", ErrParse)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		return parseText(v)
	default:
		return 0, fmt.Errorf("%T: %w", raw, ErrParse)
	}
}

func parseText(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell: %w", ErrParse)
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		nums := make([]float64, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return 0, fmt.Errorf("%q: %w", s, ErrParse)
			}
			nums[i] = f
		}
		switch len(nums) {
		case 3:
			return finite(nums[0]*3600 + nums[1]*60 + nums[2])
		case 2:
			return finite(nums[0]*60 + nums[1])
		default:
			return 0, fmt.Errorf("%q: %d time parts: %w", s, len(nums), ErrParse)
		}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrParse)
	}
	return finite(f)
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value: %w", ErrParse)
	}
	return f, nil
}
