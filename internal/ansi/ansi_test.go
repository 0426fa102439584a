package ansi

import "testing"

func TestWrap(t *testing.T) {
	t.Parallel()
	if got := Wrap("x"); got != "x" {
		t.Errorf("Wrap without codes = %q", got)
	}
	if got, want := Wrap("ok", Bold, Green), "\033[1m\033[32mok\033[0m"; got != want {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{Wrap("ok", Bold, Green) + " done", "ok done"},
		{"\033[2Kline", "line"},
		{"trailing \033[", "trailing \033["},
	}
	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
