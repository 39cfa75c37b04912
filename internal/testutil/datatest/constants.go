// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package datatest

import "fmt"

// ConstantRegistry maps constant names (strings) to their integer values.
// This allows test data to use symbolic constant names instead of magic numbers.
type ConstantRegistry struct {
	constants map[string]int
}

// NewConstantRegistry creates a new constant registry.
func NewConstantRegistry() *ConstantRegistry {
	return &ConstantRegistry{
		constants: make(map[string]int),
	}
}

// Register registers a constant name and its integer value.
//
// Example:
//
//	registry.Register("BadIndentation", int(libyaml.BadIndentation))
//	registry.Register("SCALAR_TOKEN", int(libyaml.SCALAR_TOKEN))
func (r *ConstantRegistry) Register(name string, value int) {
	r.constants[name] = value
}

// Resolve looks up a constant name and returns its value.
// Returns (value, true) if found, (0, false) if not found.
func (r *ConstantRegistry) Resolve(name string) (int, bool) {
	val, ok := r.constants[name]
	return val, ok
}

// ResolveIntOrString attempts to parse a value as either:
// 1. An integer constant name (returns the resolved value)
// 2. A direct integer value
// Returns an error if neither works.
func (r *ConstantRegistry) ResolveIntOrString(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		if resolved, ok := r.Resolve(v); ok {
			return resolved, nil
		}
		return 0, fmt.Errorf("constant %q not found", v)
	default:
		return 0, fmt.Errorf("expected int or string, got %T", value)
	}
}
