package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is the envelope every use case method returns.
type Result struct {
	Data     interface{}
	MetaData interface{}
	Error    error
}

// ConvertString marshals anything into a loggable string.
func ConvertString(data interface{}) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	default:
		marshaled, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		return string(marshaled)
	}
}

// ConvertInt parses loosely typed config values into int.
func ConvertInt(data interface{}) int {
	switch v := data.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
