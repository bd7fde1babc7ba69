package maputil

import (
	"fmt"
	"strconv"
)

func GetKeyFromMap(obj map[string]any, key string, defaultValue any) any {
	if len(obj) == 0 {
		return defaultValue
	}

	val, isOk := obj[key]
	if !isOk {
		return defaultValue
	}

	return val
}

// GetInt64FromMap accepts any value whose string form parses as a base 10 integer.
func GetInt64FromMap(obj map[string]any, key string) (int64, error) {
	if len(obj) == 0 {
		return 0, fmt.Errorf("object is empty")
	}

	valInterface, isOk := obj[key]
	if !isOk {
		return 0, fmt.Errorf("key: %q does not exist in object", key)
	}

	if bytes, isOk := valInterface.([]byte); isOk {
		valInterface = string(bytes)
	}

	val, err := strconv.ParseInt(fmt.Sprint(valInterface), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("key: %q is not type integer: %w", key, err)
	}

	return val, nil
}
