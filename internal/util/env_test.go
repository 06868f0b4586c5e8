package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		expected     bool
	}{
		{"unset uses default true", "", true, true},
		{"unset uses default false", "", false, false},
		{"true", "true", false, true},
		{"TRUE", "TRUE", false, true},
		{"1", "1", false, true},
		{"yes", "yes", false, true},
		{"on", "on", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
		{"no", "no", true, false},
		{"off", "off", true, false},
		{"padded value", "  true  ", false, true},
		{"invalid uses default", "banana", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := "MINDGUIDE_TEST_BOOL"
			if tc.value != "" {
				t.Setenv(key, tc.value)
			}
			if got := ParseBoolEnv(key, tc.defaultValue); got != tc.expected {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.defaultValue, got, tc.expected)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"unset uses default", "", 30 * time.Minute, 30 * time.Minute},
		{"minutes", "15m", 30 * time.Minute, 15 * time.Minute},
		{"compound", "1h30m", time.Minute, 90 * time.Minute},
		{"seconds", "45s", time.Minute, 45 * time.Second},
		{"padded value", "  5m  ", time.Minute, 5 * time.Minute},
		{"invalid uses default", "soon", 30 * time.Minute, 30 * time.Minute},
		{"bare number uses default", "30", time.Minute, time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := "MINDGUIDE_TEST_DURATION"
			if tc.value != "" {
				t.Setenv(key, tc.value)
			}
			if got := ParseDurationEnv(key, tc.defaultValue); got != tc.expected {
				t.Errorf("ParseDurationEnv(%q, %v) = %v, want %v", tc.value, tc.defaultValue, got, tc.expected)
			}
		})
	}
}
