package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.tsrepl.dev/pkg/diag"
)

// TokenType is the type of a Token.
type TokenType int

// Possible values for TokenType.
const (
	Ident TokenType = iota // identifiers, keywords and #private names
	Number
	String
	Template
	Regexp
	Punct
)

var tokenTypeNames = [...]string{"Ident", "Number", "String", "Template", "Regexp", "Punct"}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token.
type Token struct {
	Type TokenType
	Text string
	diag.Ranging
	// NewlineBefore is true when a line terminator (possibly inside a
	// comment) separates the token from the previous one.
	NewlineBefore bool
	// HasAwait is true for a Template whose substitutions use "await"
	// outside of any nested function.
	HasAwait bool
}

// Is reports whether the token is a punctuator or identifier with the given
// text.
func (t Token) Is(text string) bool {
	return (t.Type == Punct || t.Type == Ident) && t.Text == text
}

// Punctuators, longest first.
var puncts = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

const singlePuncts = "{}()[];,<>+-*/%&|^!~?:=.@#"

const eof rune = -1

// Scan splits src into tokens. Whitespace and comments are dropped. The
// returned error, if any, is a *diag.Error of type "SyntaxError" describing
// an unterminated construct.
func Scan(src Source) ([]Token, error) {
	sc := &scanner{src: src.Code, name: src.Name}
	if strings.HasPrefix(sc.src, "#!") {
		sc.skipLine()
	}
	var tokens []Token
	for {
		tok, ok := sc.token()
		if sc.err != nil {
			return nil, sc.err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
		sc.prev = &tokens[len(tokens)-1]
	}
}

// IsBlank reports whether code has nothing but whitespace and complete
// comments.
func IsBlank(code string) bool {
	tokens, err := Scan(Source{Code: code})
	return err == nil && len(tokens) == 0
}

type scanner struct {
	name string
	src  string
	pos  int
	prev *Token
	err  error
}

func (sc *scanner) peek() rune {
	if sc.pos == len(sc.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(sc.src[sc.pos:])
	return r
}

func (sc *scanner) next() rune {
	if sc.pos == len(sc.src) {
		return eof
	}
	r, s := utf8.DecodeRuneInString(sc.src[sc.pos:])
	sc.pos += s
	return r
}

func (sc *scanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(sc.src[sc.pos:], prefix)
}

func (sc *scanner) errorf(from int, format string, args ...any) {
	if sc.err == nil {
		sc.err = &diag.Error{
			Type:    "SyntaxError",
			Message: fmt.Sprintf(format, args...),
			Context: *diag.NewContext(sc.name, sc.src, diag.Ranging{From: from, To: len(sc.src)}),
		}
	}
}

func (sc *scanner) skipLine() {
	for r := sc.peek(); r != eof && r != '\n'; r = sc.peek() {
		sc.next()
	}
}

// Skips whitespace and comments, reporting whether a line terminator was
// skipped.
func (sc *scanner) skipSpace() bool {
	newline := false
	for {
		switch r := sc.peek(); {
		case r == '\n' || r == '\u2028' || r == '\u2029':
			newline = true
			sc.next()
		case unicode.IsSpace(r) || r == '\uFEFF':
			sc.next()
		case sc.hasPrefix("//"):
			sc.skipLine()
		case sc.hasPrefix("/*"):
			from := sc.pos
			end := strings.Index(sc.src[sc.pos+2:], "*/")
			if end == -1 {
				sc.errorf(from, "Unterminated comment")
				sc.pos = len(sc.src)
				return newline
			}
			if strings.ContainsAny(sc.src[sc.pos:sc.pos+2+end], "\n\u2028\u2029") {
				newline = true
			}
			sc.pos += 2 + end + 2
		default:
			return newline
		}
	}
}

func (sc *scanner) token() (Token, bool) {
	newline := sc.skipSpace()
	if sc.err != nil || sc.pos == len(sc.src) {
		return Token{}, false
	}
	from := sc.pos
	tok := Token{NewlineBefore: newline}
	switch r := sc.peek(); {
	case r == '"' || r == '\'':
		tok.Type = String
		sc.scanString(r)
	case r == '`':
		tok.Type = Template
		tok.HasAwait = sc.scanTemplate()
	case isDigit(r) || (r == '.' && isDigit(sc.peekAt(1))):
		tok.Type = Number
		sc.scanNumber()
	case isIdentStart(r) || r == '\\' || (r == '#' && isIdentStart(sc.peekAt(1))):
		tok.Type = Ident
		sc.next()
		sc.scanIdentRest()
	case r == '/' && regexpAllowed(sc.prev):
		tok.Type = Regexp
		sc.scanRegexp()
	default:
		tok.Type = Punct
		sc.scanPunct()
	}
	tok.Ranging = diag.Ranging{From: from, To: sc.pos}
	tok.Text = sc.src[from:sc.pos]
	return tok, true
}

// Returns the rune i runes after the current position.
func (sc *scanner) peekAt(i int) rune {
	rest := sc.src[sc.pos:]
	for ; i > 0 && rest != ""; i-- {
		_, s := utf8.DecodeRuneInString(rest)
		rest = rest[s:]
	}
	if rest == "" {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r
}

func (sc *scanner) scanString(quote rune) {
	from := sc.pos
	sc.next()
	for {
		switch sc.next() {
		case quote:
			return
		case '\\':
			sc.next()
		case '\n', eof:
			sc.errorf(from, "Invalid or unexpected token")
			return
		}
	}
}

// Scans a template literal, returning whether any substitution contains a
// top-level await.
func (sc *scanner) scanTemplate() bool {
	from := sc.pos
	hasAwait := false
	sc.next()
	for {
		switch sc.next() {
		case '`':
			return hasAwait
		case '\\':
			sc.next()
		case '$':
			if sc.peek() == '{' {
				sc.next()
				if sc.scanSubstitution() {
					hasAwait = true
				}
			}
		case eof:
			sc.errorf(from, "Unterminated template literal")
			return hasAwait
		}
		if sc.err != nil {
			return hasAwait
		}
	}
}

// Scans the tokens of a template substitution up to and including the
// closing brace.
func (sc *scanner) scanSubstitution() bool {
	from := sc.pos
	outerPrev := sc.prev
	defer func() { sc.prev = outerPrev }()
	sc.prev = nil

	var tokens []Token
	depth := 0
	for {
		tok, ok := sc.token()
		if sc.err != nil {
			return false
		}
		if !ok {
			sc.errorf(from, "Unterminated template literal")
			return false
		}
		if tok.Type == Punct {
			switch tok.Text {
			case "{":
				depth++
			case "}":
				if depth == 0 {
					return HasTopLevelAwait(tokens)
				}
				depth--
			}
		}
		tokens = append(tokens, tok)
		sc.prev = &tokens[len(tokens)-1]
	}
}

func (sc *scanner) scanNumber() {
	hex := sc.hasPrefix("0x") || sc.hasPrefix("0X")
	for {
		r := sc.peek()
		switch {
		case isDigit(r) || isIdentPart(r) || r == '.':
			sc.next()
			if !hex && (r == 'e' || r == 'E') && (sc.peek() == '+' || sc.peek() == '-') {
				sc.next()
			}
		default:
			return
		}
	}
}

func (sc *scanner) scanIdentRest() {
	for {
		r := sc.peek()
		if isIdentPart(r) {
			sc.next()
		} else if r == '\\' && sc.peekAt(1) == 'u' {
			sc.next()
			sc.next()
		} else {
			return
		}
	}
}

func (sc *scanner) scanRegexp() {
	from := sc.pos
	sc.next()
	inClass := false
loop:
	for {
		switch sc.next() {
		case '\\':
			sc.next()
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				break loop
			}
		case '\n', eof:
			sc.errorf(from, "Invalid regular expression: missing /")
			return
		}
	}
	sc.scanIdentRest()
}

func (sc *scanner) scanPunct() {
	for _, p := range puncts {
		if sc.hasPrefix(p) {
			sc.pos += len(p)
			return
		}
	}
	if r := sc.next(); !strings.ContainsRune(singlePuncts, r) {
		sc.errorf(sc.pos-utf8.RuneLen(r), "Invalid or unexpected token")
	}
}

// Reports whether a "/" after prev starts a regular expression rather than a
// division.
func regexpAllowed(prev *Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Type {
	case Punct:
		switch prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case Ident:
		return regexpAfterKeyword[prev.Text]
	}
	return false
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || r == '\u200C' || r == '\u200D'
}
