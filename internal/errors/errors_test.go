package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("domain limit reached"), expected: "Error: domain limit reached"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("check-in failed: %w", errors.New("already submitted")),
			expected: "Error: check-in failed: already submitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []interface{}
		expected string
	}{
		{name: "simple message", format: "something went wrong", expected: "Error: something went wrong"},
		{name: "with string", format: "domain %q not found", args: []interface{}{"health"}, expected: `Error: domain "health" not found`},
		{name: "with number", format: "at most %d domains", args: []interface{}{5}, expected: "Error: at most 5 domains"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Formatf(tt.format, tt.args...); result != tt.expected {
				t.Errorf("Formatf() = %q, want %q", result, tt.expected)
			}
		})
	}
}
