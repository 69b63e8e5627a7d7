package phrase

import "testing"

func TestShorten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"long phrase", "This is a long phrase that needs to be shortened.", 30, "This is a long phrase ..."},
		{"short phrase", "Short phrase.", 30, "Short phrase."},
		{"exact length", "abcde", 5, "abcde"},
		{"no spaces", "abcdefghijklmnop", 10, "abcdef ..."},
		{"empty", "", 30, "-"},
		{"blank", "   ", 30, "-"},
		{"multibyte", "ünïcödé wörds everywhere", 12, "ünïcödé ..."},
		{"tiny max", "hello world", 3, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.in, tt.max); got != tt.want {
				t.Fatalf("Shorten(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
