package parse

// Keywords whose parenthesized header is followed by a block rather than a
// function body.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true, "with": true,
}

var closerOf = map[string]string{")": "(", "]": "[", "}": "{"}

type frame struct {
	open    string // "(", "[", "{", or "=>" for a concise arrow body
	fn      bool   // a function body
	control bool   // the header of a control statement
}

// Walks tokens, calling f with each token index and whether the token is
// inside the body of some function. It returns false if brackets don't
// balance.
//
// Function bodies are recognized syntactically: a "{" right after the
// parameter list of a function or method (possibly after a TypeScript return
// type), a "{" after "=>", and concise arrow bodies, which last until the next
// "," or ";" at their own level, a closing bracket of an enclosing level, or
// the end of the statement.
func walkScopes(tokens []Token, f func(i int, inFunc bool)) bool {
	var stack []frame
	fnDepth := 0
	push := func(fr frame) {
		stack = append(stack, fr)
		if fr.fn {
			fnDepth++
		}
	}
	pop := func() frame {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fr.fn {
			fnDepth--
		}
		return fr
	}
	popArrows := func() {
		for len(stack) > 0 && stack[len(stack)-1].open == "=>" {
			pop()
		}
	}
	onlyArrows := func() bool {
		for _, fr := range stack {
			if fr.open != "=>" {
				return false
			}
		}
		return true
	}

	afterParams, inRetType := false, false
	for i, tok := range tokens {
		wasAfterParams := afterParams
		afterParams = false
		if i > 0 && tok.NewlineBefore && onlyArrows() && EndsStatement(tokens[i-1], tok) {
			popArrows()
		}

		f(i, fnDepth > 0)

		if tok.Type != Punct {
			continue
		}
		switch tok.Text {
		case "(", "[":
			control := tok.Text == "(" && i > 0 &&
				tokens[i-1].Type == Ident && controlKeywords[tokens[i-1].Text]
			push(frame{open: tok.Text, control: control})
		case "{":
			fn := wasAfterParams || inRetType || (i > 0 && tokens[i-1].Is("=>"))
			push(frame{open: "{", fn: fn})
			inRetType = false
		case ")", "]", "}":
			popArrows()
			if len(stack) == 0 || stack[len(stack)-1].open != closerOf[tok.Text] {
				return false
			}
			if fr := pop(); tok.Text == ")" && !fr.control {
				afterParams = true
			}
		case ":":
			if wasAfterParams {
				inRetType = true
			}
		case "=>":
			inRetType = false
			if i+1 < len(tokens) && !tokens[i+1].Is("{") {
				push(frame{open: "=>", fn: true})
			}
		case ",", ";":
			inRetType = false
			popArrows()
		}
	}
	popArrows()
	return len(stack) == 0
}

// Balanced reports whether all brackets in tokens are closed in order.
func Balanced(tokens []Token) bool {
	return walkScopes(tokens, func(int, bool) {})
}

// HasTopLevelAwait reports whether tokens use "await" (including
// "for await" and awaits in template substitutions) outside of every
// function body.
func HasTopLevelAwait(tokens []Token) bool {
	found := false
	walkScopes(tokens, func(i int, inFunc bool) {
		if !inFunc && IsAwait(tokens, i) {
			found = true
		}
	})
	return found
}

// IsAwait reports whether tokens[i] is an await operator, or a template
// containing one.
func IsAwait(tokens []Token, i int) bool {
	tok := tokens[i]
	if tok.Type == Template {
		return tok.HasAwait
	}
	if tok.Type != Ident || tok.Text != "await" || i+1 == len(tokens) {
		return false
	}
	if i > 0 && (tokens[i-1].Is(".") || tokens[i-1].Is("?.")) {
		// Property access like x.await.
		return false
	}
	next := tokens[i+1]
	if next.Type != Punct {
		return true
	}
	switch next.Text {
	case "(", "[", "{", "!", "~", "+", "-", "++", "--":
		return true
	}
	return false
}
