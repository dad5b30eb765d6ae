package strutil

import "strings"

// ChopLineEnding removes one line ending ("\r\n" or "\n") from the end of s.
func ChopLineEnding(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// SplitLines splits s into lines, dropping a final empty line caused by a
// trailing newline.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(ChopLineEnding(s), "\n")
}
