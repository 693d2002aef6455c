package typing

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts a scanned database value into a string, nil becomes "".
func ToString(value any) string {
	switch castedValue := value.(type) {
	case nil:
		return ""
	case string:
		return castedValue
	case []byte:
		return string(castedValue)
	default:
		return fmt.Sprint(castedValue)
	}
}

func ToInt64(value any) (int64, error) {
	switch castedValue := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return castedValue, nil
	case int32:
		return int64(castedValue), nil
	case int:
		return int64(castedValue), nil
	case uint64:
		return int64(castedValue), nil
	case float64:
		return int64(castedValue), nil
	case string, []byte:
		str := strings.TrimSpace(ToString(castedValue))
		if str == "" {
			return 0, nil
		}
		// Snowflake and Redshift may hand back NUMBER columns as "42" or "42.000".
		if parsed, err := strconv.ParseInt(str, 10, 64); err == nil {
			return parsed, nil
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %q as an integer: %w", str, err)
		}
		return int64(parsed), nil
	default:
		return 0, fmt.Errorf("unexpected type %T for an integer", value)
	}
}

// ToBool understands native booleans, 0/1 integers and YES/NO/true/false strings.
func ToBool(value any) bool {
	switch castedValue := value.(type) {
	case nil:
		return false
	case bool:
		return castedValue
	case int64:
		return castedValue != 0
	case int:
		return castedValue != 0
	default:
		switch strings.ToLower(strings.TrimSpace(ToString(castedValue))) {
		case "yes", "y", "true", "t", "1":
			return true
		default:
			return false
		}
	}
}
