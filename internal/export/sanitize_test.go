package export

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"plain", "My Project", 0, "My Project"},
		{"slashes replaced", "a/b\\c", 0, "a_b_c"},
		{"control chars dropped", "a\x00b\tc", 0, "abc"},
		{"trimmed", "  padded  ", 0, "padded"},
		{"truncated", "abcdefghij", 4, "abcd"},
		{"unicode kept", "Pièce Montée", 0, "Pièce Montée"},
		{"allowed punctuation", "cut-01_final (v2).mp4", 0, "cut-01_final (v2).mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeName(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
