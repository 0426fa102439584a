// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored/styled terminal output should reference these constants to avoid duplication.
package ansi

import "strings"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Wrap returns s preceded by codes and followed by Reset. With no codes s
// is returned unchanged.
func Wrap(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Strip removes every CSI escape sequence (colors, line clears, cursor
// moves) from s. An unterminated sequence is kept.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] >= 0x20 && s[j] <= 0x3f {
				j++
			}
			if j < len(s) && s[j] >= 0x40 && s[j] <= 0x7e {
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
