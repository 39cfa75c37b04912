// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package datatest provides utilities for data-driven testing with YAML test files.
//
// Test files are sequences of cases. A case is either a mapping with "type"
// and "name" keys, or a single-key mapping whose key is the type:
//
//	- scan-tokens:
//	    name: Plain scalar
//	    yaml: foo
//	    want: [...]
//
// Files are decoded with gopkg.in/yaml.v3, so fixtures never depend on the
// parser under test.
package datatest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTestCasesFromFile loads and normalizes test cases from a YAML file.
func LoadTestCasesFromFile(filename string) ([]map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadTestCases(data)
}

// LoadTestCases decodes a YAML sequence of test cases and normalizes the
// type-as-key format to standard format.
func LoadTestCases(data []byte) ([]map[string]any, error) {
	var rawCases []any
	if err := yaml.Unmarshal(data, &rawCases); err != nil {
		return nil, err
	}

	result := make([]map[string]any, 0, len(rawCases))
	for i, item := range rawCases {
		rawCase, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("test case %d: expected mapping, got %T", i, item)
		}
		result = append(result, NormalizeTypeAsKey(rawCase))
	}
	return result, nil
}

// NormalizeTypeAsKey converts maps with type as key to standard format.
// Example: {"scan-tokens": {"yaml": "x"}} -> {"type": "scan-tokens", "yaml": "x"}
func NormalizeTypeAsKey(itemMap map[string]any) map[string]any {
	if len(itemMap) != 1 {
		return itemMap
	}
	if _, hasType := itemMap["type"]; hasType {
		return itemMap
	}
	for key, value := range itemMap {
		if !IsTypeConstant(key) {
			continue
		}
		subMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		newMap := map[string]any{"type": key}
		for k, v := range subMap {
			if k == "type" {
				// The case has its own "type" field.
				newMap["output_type"] = v
			} else {
				newMap[k] = v
			}
		}
		return newMap
	}
	return itemMap
}

// IsTypeConstant checks if a string looks like a type constant.
// Accepts: UPPERCASE_WITH_UNDERSCORES or lowercase-with-hyphens
func IsTypeConstant(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '-' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
