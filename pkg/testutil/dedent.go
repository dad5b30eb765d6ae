package testutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceOnly    = regexp.MustCompile("(?m)^[ \t]+$")
	leadingWhitespace = regexp.MustCompile("(?m)(^[ \t]*)(?:[^ \t\n])")
)

// Dedent removes the common leading whitespace of all lines in text, and a
// leading newline, so that raw strings can be indented along with test code.
func Dedent(text string) string {
	var margin string

	if strings.HasPrefix(text, "\n") {
		text = whitespaceOnly.ReplaceAllString(text[1:], "")
	} else {
		text = whitespaceOnly.ReplaceAllString(text, "")
	}
	indents := leadingWhitespace.FindAllStringSubmatch(text, -1)

	for i, indent := range indents {
		switch {
		case i == 0 || strings.HasPrefix(margin, indent[1]):
			margin = indent[1]
		case strings.HasPrefix(indent[1], margin):
		default:
			margin = ""
		}
		if margin == "" {
			break
		}
	}

	if margin != "" {
		text = regexp.MustCompile("(?m)^"+margin).ReplaceAllString(text, "")
	}
	return text
}
