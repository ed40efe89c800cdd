package crypto

import (
	"encoding/json"
	"fmt"
)

// Canonicalize converts a value to the fixed string form used for both
// encryption and signing. Strings pass through unchanged; every other
// value is JSON-encoded, which is deterministic (map keys are sorted,
// struct fields keep declaration order).
func Canonicalize(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("canonicalize value: %w", err)
		}
		return string(data), nil
	}
}

// Decanonicalize reverses Canonicalize on a recovered plaintext. The
// string is parsed as JSON when possible; otherwise the raw string is
// returned, which covers values that were plain scalars to begin with.
func Decanonicalize(plaintext string) any {
	var value any
	if err := json.Unmarshal([]byte(plaintext), &value); err != nil {
		return plaintext
	}
	return value
}
