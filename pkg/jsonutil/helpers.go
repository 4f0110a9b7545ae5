// Package jsonutil provides JSON formatting utilities for Vista.
//
// These helpers are used for rendering device API payloads in the CLI
// and for logging unrecognized push-channel events.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pretty formats JSON bytes with indentation for display.
// Returns the input as a string if it is not valid JSON.
func Pretty(b []byte) string {
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return string(b)
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return string(b)
	}
	return string(pretty)
}

// Compact minifies JSON bytes by removing whitespace.
// Returns the input as a string if it is not valid JSON.
func Compact(b []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(b)
	}
	return buf.String()
}

// MustMarshal marshals a value to JSON, panicking on error.
// Use only for values known to be marshalable (e.g., maps, slices).
func MustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("jsonutil.MustMarshal: %v", err))
	}
	return string(b)
}

// Truncate cuts a string to maxLen characters, adding "..."
// if truncation occurred. Used for one-line event logging.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
