package utils

import "testing"

func TestParseBool(t *testing.T) {
	tests := []struct {
		input        string
		defaultValue bool
		expected     bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"True", false, true},
		{"Yes", false, true},
		{"No", true, false},
		{"1", false, true},
		{"0", true, false},
		{"", false, false},
		{"", true, true},
		{"maybe", false, false},
		{"maybe", true, true},
		{" true ", false, true},
	}

	for _, test := range tests {
		result := ParseBool(test.input, test.defaultValue)
		if result != test.expected {
			t.Errorf("expected %v for input %q (default %v), but got %v", test.expected, test.input, test.defaultValue, result)
		}
	}
}
