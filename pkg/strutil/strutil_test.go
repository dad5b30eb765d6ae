package strutil

import (
	"testing"

	"src.tsrepl.dev/pkg/tt"
)

func TestChopLineEnding(t *testing.T) {
	tt.Test(t, tt.Fn("ChopLineEnding", ChopLineEnding), tt.Table{
		tt.Args("").Rets(""),
		tt.Args("text").Rets("text"),
		tt.Args("text\n").Rets("text"),
		tt.Args("text\r\n").Rets("text"),
		tt.Args("text\n\n").Rets("text\n"),
	})
}

func TestSplitLines(t *testing.T) {
	tt.Test(t, tt.Fn("SplitLines", SplitLines), tt.Table{
		tt.Args("").Rets([]string(nil)),
		tt.Args("a\nb\n").Rets([]string{"a", "b"}),
		tt.Args("a\n\nb").Rets([]string{"a", "", "b"}),
	})
}

func TestTitle(t *testing.T) {
	tt.Test(t, tt.Fn("Title", Title), tt.Table{
		tt.Args("").Rets(""),
		tt.Args("syntax error").Rets("Syntax error"),
		tt.Args("Done").Rets("Done"),
	})
}

func TestPadRight(t *testing.T) {
	tt.Test(t, tt.Fn("PadRight", PadRight), tt.Table{
		tt.Args("ab", 4).Rets("ab  "),
		tt.Args("abcde", 4).Rets("abcde"),
		tt.Args("你", 4).Rets("你  "),
	})
}
