package model

import "testing"

func TestBase3(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"de:09162:1", "de:09162:1"},
		{"de:09162:1:50:51", "de:09162:1"},
		{"de:09162:1:1", "de:09162:1"},
		{"de:09162", "de:09162"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Base3(tc.id); got != tc.expected {
			t.Errorf("Base3(%q) = %q, expected %q", tc.id, got, tc.expected)
		}
	}
}
