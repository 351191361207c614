package diagnose

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "x = 1", "x = 1"},
		{"surrounding whitespace", "  \n\tx = 1\n  ", "x = 1"},
		{"non-breaking spaces", "x\u00a0=\u00a01", "x = 1"},
		{"nbsp only", "\u00a0\u00a0", ""},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"interior whitespace preserved", "if x:\n    return", "if x:\n    return"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
