package dblayer

import "testing"

func TestFallbackDisplayName(t *testing.T) {
	tests := []struct {
		displayName string
		email       string
		want        string
	}{
		{"Alice", "alice@example.com", "Alice"},
		{"", "alice@example.com", "alice"},
		{"", "@example.com", "Anonymous"},
		{"", "", "Anonymous"},
		{"Bob", "", "Bob"},
	}

	for _, tc := range tests {
		if got := fallbackDisplayName(tc.displayName, tc.email); got != tc.want {
			t.Errorf("fallbackDisplayName(%q, %q) = %q, want %q", tc.displayName, tc.email, got, tc.want)
		}
	}
}
