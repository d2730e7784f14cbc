// Package jsonutil decodes tool arguments that may arrive either as JSON
// values or as stringified JSON documents.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// DecodeValue unmarshals a tool argument into target. Most clients send
// structured arguments as JSON objects, but some serialize the same payload
// into a string first; both shapes decode identically.
func DecodeValue(value any, target any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("value is null")
	case string:
		data = []byte(v)
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to re-encode value: %w", err)
		}
		data = encoded
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return nil
}
