package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/flicker/internal/assertion"
)

// marshalErrors converts result errors to JSON TEXT for storage.
// HTML escaping is disabled so messages are stored as written.
func marshalErrors(errs []assertion.ResultError) (string, error) {
	if len(errs) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(errs); err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalErrors parses JSON TEXT to result errors.
func unmarshalErrors(data string) ([]assertion.ResultError, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var errs []assertion.ResultError
	if err := json.Unmarshal([]byte(data), &errs); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}
	return errs, nil
}
