package transform

import "src.tsrepl.dev/pkg/parse"

// Keywords of statements that end with a block and need no semicolon.
var blockKeywords = map[string]bool{
	"function": true, "class": true, "if": true, "for": true, "while": true,
	"try": true, "switch": true, "with": true, "{": true,
}

// Keywords that continue a statement ending with a block.
var blockContinuations = map[string]bool{"else": true, "catch": true, "finally": true}

var headerKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "with": true,
}

func depthDelta(tok parse.Token) int {
	if tok.Type != parse.Punct {
		return 0
	}
	switch tok.Text {
	case "(", "[", "{":
		return 1
	case ")", "]", "}":
		return -1
	}
	return 0
}

func startsBlockStatement(toks []parse.Token) bool {
	if blockKeywords[toks[0].Text] {
		return true
	}
	return toks[0].Is("async") && len(toks) > 1 && toks[1].Is("function")
}

// Splits balanced tokens into top-level statements. Statements end at a
// semicolon, at a line break where automatic semicolon insertion applies, or
// at the closing brace of a statement that ends with a block.
func splitStatements(code string, tokens []parse.Token) []statement {
	var stmts []statement
	start := 0
	depth := 0
	// Whether the last bracket returning to depth 0 closed a control header
	// like the condition of an if.
	afterHeader := false
	headerOpen := false

	emit := func(end int) {
		if end > start {
			toks := tokens[start:end]
			if len(stmts) > 0 && blockContinuations[toks[0].Text] {
				prev := &stmts[len(stmts)-1]
				prev.tokens = tokens[indexOf(tokens, prev.tokens[0]):end]
			} else {
				stmts = append(stmts, statement{code, toks})
			}
		}
		start = end
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if depth == 0 && i > start && tok.NewlineBefore && !afterHeader &&
			parse.EndsStatement(tokens[i-1], tok) {
			emit(i)
		}
		if depth == 0 && tok.Is(";") {
			emit(i)
			start = i + 1
			afterHeader = false
			continue
		}
		afterHeader = false
		switch d := depthDelta(tok); {
		case d > 0:
			if depth == 0 && tok.Is("(") {
				headerOpen = isHeader(tokens, start, i)
			}
			depth++
		case d < 0:
			depth--
			if depth == 0 {
				if tok.Is(")") {
					afterHeader = headerOpen
					headerOpen = false
				} else if tok.Is("}") && startsBlockStatement(tokens[start:]) &&
					(i+1 == len(tokens) || !blockContinuations[tokens[i+1].Text]) {
					emit(i + 1)
				}
			}
		}
	}
	emit(len(tokens))
	return stmts
}

// Reports whether the "(" at tokens[i] opens the header of a control
// statement.
func isHeader(tokens []parse.Token, start, i int) bool {
	if i == start {
		return false
	}
	prev := tokens[i-1]
	if prev.Is("await") && i-2 >= start && tokens[i-2].Is("for") {
		return true
	}
	if prev.Is("while") && tokens[start].Is("do") {
		return false
	}
	return prev.Type == parse.Ident && headerKeywords[prev.Text]
}

func indexOf(tokens []parse.Token, tok parse.Token) int {
	for i := range tokens {
		if tokens[i].From == tok.From {
			return i
		}
	}
	return 0
}

// Splits tokens at sep tokens that are not nested in brackets.
func splitTopLevel(tokens []parse.Token, sep string) [][]parse.Token {
	var parts [][]parse.Token
	depth, start := 0, 0
	for i, tok := range tokens {
		depth += depthDelta(tok)
		if depth == 0 && tok.Is(sep) {
			parts = append(parts, tokens[start:i])
			start = i + 1
		}
	}
	return append(parts, tokens[start:])
}

// Returns the index of the first text token not nested in brackets, or -1.
func indexTopLevel(tokens []parse.Token, text string) int {
	depth := 0
	for i, tok := range tokens {
		if depth == 0 && tok.Is(text) {
			return i
		}
		depth += depthDelta(tok)
	}
	return -1
}

// Returns the index of the bracket closing tokens[0], or -1.
func matchingCloser(tokens []parse.Token) int {
	depth := 0
	for i, tok := range tokens {
		depth += depthDelta(tok)
		if depth == 0 {
			return i
		}
	}
	return -1
}

// Returns the names bound by a binding pattern, which is an identifier or an
// object or array destructuring pattern.
func patternNames(pattern []parse.Token) []string {
	if len(pattern) == 0 {
		return nil
	}
	first := pattern[0]
	if first.Is("{") || first.Is("[") {
		if len(pattern) < 2 {
			return nil
		}
		var names []string
		for _, elem := range splitTopLevel(pattern[1:len(pattern)-1], ",") {
			names = append(names, elementNames(elem, first.Is("{"))...)
		}
		return names
	}
	if first.Type == parse.Ident {
		return []string{first.Text}
	}
	return nil
}

// Returns the names bound by one element of a destructuring pattern.
func elementNames(elem []parse.Token, inObject bool) []string {
	if len(elem) == 0 {
		return nil
	}
	if elem[0].Is("...") {
		return patternNames(elem[1:])
	}
	if inObject {
		colon := indexTopLevel(elem, ":")
		if colon < 0 {
			// Shorthand property, possibly with a default.
			return patternNames(elem[:1])
		}
		elem = elem[colon+1:]
	}
	if eq := indexTopLevel(elem, "="); eq >= 0 {
		elem = elem[:eq]
	}
	return patternNames(elem)
}
