// Package utils provides shared input validation and fingerprinting
// helpers for the analysis services.
package utils

import (
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"
)

// Input size limits
const (
	// MaxExpressionLength bounds a submitted expression string
	MaxExpressionLength = 4096
	// MaxParameterCount bounds the number of free parameter bindings
	MaxParameterCount = 32
	// MaxParameterNameLength bounds a single parameter name
	MaxParameterNameLength = 64
)

// ParameterNamePattern matches valid free parameter names: a letter
// followed by letters, digits, or underscores.
var ParameterNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateExpression checks a raw expression string before parsing.
func ValidateExpression(expr string) error {
	if expr == "" {
		return fmt.Errorf("expression must not be empty")
	}
	if len(expr) > MaxExpressionLength {
		return fmt.Errorf("expression length %d exceeds maximum %d", len(expr), MaxExpressionLength)
	}
	if !utf8.ValidString(expr) {
		return fmt.Errorf("expression is not valid UTF-8")
	}
	return nil
}

// ValidateBindings checks free parameter bindings before they reach the
// engine. Values must be finite; names must be well formed.
func ValidateBindings(bindings map[string]float64) error {
	if len(bindings) > MaxParameterCount {
		return fmt.Errorf("parameter count %d exceeds maximum %d", len(bindings), MaxParameterCount)
	}
	for name, v := range bindings {
		if len(name) > MaxParameterNameLength || !ParameterNamePattern.MatchString(name) {
			return fmt.Errorf("invalid parameter name: %q", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %s must be finite, got %v", name, v)
		}
	}
	return nil
}
