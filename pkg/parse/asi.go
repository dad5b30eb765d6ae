package parse

// Keywords after which a statement cannot end.
var continuingKeywords = map[string]bool{
	"else": true, "do": true, "in": true, "of": true, "instanceof": true,
	"typeof": true, "new": true, "delete": true, "void": true, "case": true,
	"extends": true, "const": true, "let": true, "var": true, "function": true,
	"class": true, "if": true, "for": true, "while": true, "with": true,
	"switch": true, "try": true, "catch": true, "finally": true, "throw": true,
	"yield": true, "await": true, "async": true, "import": true, "export": true,
}

// Keywords that continue the statement before them.
var infixKeywords = map[string]bool{
	"in": true, "of": true, "instanceof": true, "else": true, "catch": true,
	"finally": true, "as": true, "satisfies": true,
}

// EndsStatement reports whether a line break between prev and next ends a
// statement through automatic semicolon insertion. It is a conservative
// approximation: it only reports true when prev can end an expression and
// next can only begin a new one.
func EndsStatement(prev, next Token) bool {
	return canEnd(prev) && canStart(next)
}

func canEnd(t Token) bool {
	switch t.Type {
	case Number, String, Template, Regexp:
		return true
	case Ident:
		return !continuingKeywords[t.Text]
	}
	switch t.Text {
	case ")", "]", "}", "++", "--":
		return true
	}
	return false
}

func canStart(t Token) bool {
	switch t.Type {
	case Number, String, Regexp:
		return true
	case Template:
		// A template after a line break is a tagged template.
		return false
	case Ident:
		return !infixKeywords[t.Text]
	}
	switch t.Text {
	case "{", "!", "~", "++", "--", "@", "#":
		return true
	}
	return false
}
