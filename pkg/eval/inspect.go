package eval

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/dop251/goja"
	"github.com/mattn/go-runewidth"
)

// Inspector renders values the way the Node.js REPL shows them.
type Inspector struct {
	// Width is the maximal display width of a single-line rendering of an
	// object; longer ones are broken into one property per line.
	Width int
	// Depth is the number of nested levels shown; deeper objects are
	// abbreviated like [Object].
	Depth int
}

// DefaultInspector is used by Inspect.
var DefaultInspector = Inspector{Width: 80, Depth: 2}

const maxArrayItems = 100

// Inspect renders v with DefaultInspector.
func Inspect(v goja.Value) string { return DefaultInspector.Inspect(v) }

// Inspect renders v.
func (in Inspector) Inspect(v goja.Value) (s string) {
	defer func() {
		// Getters and proxies can throw.
		if r := recover(); r != nil {
			s = fmt.Sprintf("[inspection failed: %v]", r)
		}
	}()
	p := &inspection{in, map[*goja.Object]bool{}}
	return p.value(v, 0)
}

type inspection struct {
	Inspector
	seen map[*goja.Object]bool
}

func (p *inspection) value(v goja.Value, depth int) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	if sym, ok := v.(*goja.Symbol); ok {
		return "Symbol(" + sym.String() + ")"
	}
	if obj, ok := v.(*goja.Object); ok {
		if p.seen[obj] {
			return "[Circular]"
		}
		p.seen[obj] = true
		defer delete(p.seen, obj)
		return p.object(obj, depth)
	}
	return primitive(v.Export(), v.String())
}

// Formats an exported primitive value; s is its JavaScript string form.
func primitive(x any, s string) string {
	switch x := x.(type) {
	case string:
		return quote(x)
	case float64:
		if x == 0 && math.Signbit(x) {
			return "-0"
		}
	case *big.Int:
		return x.String() + "n"
	}
	return s
}

func (p *inspection) object(obj *goja.Object, depth int) string {
	if _, ok := goja.AssertFunction(obj); ok {
		return function(obj)
	}
	class := obj.ClassName()
	switch class {
	case "Error":
		if depth == 0 {
			if stack := stringProp(obj, "stack"); stack != "" {
				return strings.TrimRight(stack, "\n")
			}
		}
		name, msg := stringProp(obj, "name"), stringProp(obj, "message")
		if msg == "" {
			return "[" + name + "]"
		}
		return "[" + name + ": " + msg + "]"
	case "RegExp":
		return obj.String()
	case "Date":
		if s, err := callMethod(obj, "toISOString"); err == nil {
			return s.String()
		}
		return "Invalid Date"
	case "String", "Number", "Boolean":
		x := obj.Export()
		return "[" + class + ": " + primitive(x, fmt.Sprint(x)) + "]"
	}
	if depth > p.Depth {
		if class == "Object" {
			return "[Object]"
		}
		return "[" + class + "]"
	}

	switch class {
	case "Array":
		return p.array(obj, depth)
	case "Promise":
		return p.promise(obj, depth)
	case "Map", "Set":
		return p.collection(obj, class, depth)
	}
	var entries []string
	for _, key := range obj.Keys() {
		entries = append(entries, propertyKey(key)+": "+p.value(obj.Get(key), depth+1))
	}
	prefix := ""
	if name := constructorName(obj); name != "" && name != "Object" {
		prefix = name + " "
	}
	return p.braces(prefix, "{", "}", entries, depth)
}

func (p *inspection) array(obj *goja.Object, depth int) string {
	n := int(obj.Get("length").ToInteger())
	entries := make([]string, 0, min(n, maxArrayItems+1))
	for i := 0; i < n; i++ {
		if i == maxArrayItems {
			entries = append(entries, fmt.Sprintf("... %d more items", n-i))
			break
		}
		entries = append(entries, p.value(obj.Get(strconv.Itoa(i)), depth+1))
	}
	return p.braces("", "[", "]", entries, depth)
}

func (p *inspection) promise(obj *goja.Object, depth int) string {
	promise, ok := obj.Export().(*goja.Promise)
	if !ok {
		return "Promise {}"
	}
	var entry string
	switch promise.State() {
	case goja.PromiseStatePending:
		entry = "<pending>"
	case goja.PromiseStateRejected:
		entry = "<rejected> " + p.value(promise.Result(), depth+1)
	default:
		entry = p.value(promise.Result(), depth+1)
	}
	return p.braces("Promise ", "{", "}", []string{entry}, depth)
}

// Formats a Map or Set by iterating over its entries.
func (p *inspection) collection(obj *goja.Object, class string, depth int) string {
	var entries []string
	err := iterate(obj, func(v goja.Value) {
		if class == "Set" {
			entries = append(entries, p.value(v, depth+1))
			return
		}
		pair, ok := v.(*goja.Object)
		if !ok {
			return
		}
		entries = append(entries,
			p.value(pair.Get("0"), depth+1)+" => "+p.value(pair.Get("1"), depth+1))
	})
	if err != nil {
		return "[" + class + "]"
	}
	return p.braces(fmt.Sprintf("%s(%d) ", class, len(entries)), "{", "}", entries, depth)
}

// Arranges entries on one line if that fits the width, and one per line
// otherwise.
func (p *inspection) braces(prefix, open, close string, entries []string, depth int) string {
	if len(entries) == 0 {
		return prefix + open + close
	}
	oneLine := prefix + open + " " + strings.Join(entries, ", ") + " " + close
	if !strings.Contains(oneLine, "\n") && depth*2+runewidth.StringWidth(oneLine) <= p.Width {
		return oneLine
	}
	var b strings.Builder
	b.WriteString(prefix + open + "\n")
	for i, entry := range entries {
		b.WriteString("  " + strings.ReplaceAll(entry, "\n", "\n  "))
		if i < len(entries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(close)
	return b.String()
}

func function(obj *goja.Object) string {
	name := stringProp(obj, "name")
	if strings.HasPrefix(obj.String(), "class") {
		if name == "" {
			return "[class (anonymous)]"
		}
		return "[class " + name + "]"
	}
	kind := "Function"
	switch ctor := constructorName(obj); ctor {
	case "AsyncFunction", "GeneratorFunction", "AsyncGeneratorFunction":
		kind = ctor
	}
	if name == "" {
		return "[" + kind + " (anonymous)]"
	}
	return "[" + kind + ": " + name + "]"
}

func constructorName(obj *goja.Object) string {
	ctor, ok := obj.Get("constructor").(*goja.Object)
	if !ok {
		return ""
	}
	return stringProp(ctor, "name")
}

func callMethod(obj *goja.Object, name string) (goja.Value, error) {
	fn, ok := goja.AssertFunction(obj.Get(name))
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	return fn(obj)
}

// Calls f with each value produced by the iterator returned by the "entries"
// or "values" method of obj.
func iterate(obj *goja.Object, f func(goja.Value)) error {
	method := "entries"
	if obj.ClassName() == "Set" {
		method = "values"
	}
	it, err := callMethod(obj, method)
	if err != nil {
		return err
	}
	itObj, ok := it.(*goja.Object)
	if !ok {
		return fmt.Errorf("%s did not return an iterator", method)
	}
	for {
		r, err := callMethod(itObj, "next")
		if err != nil {
			return err
		}
		result, ok := r.(*goja.Object)
		if !ok || result.Get("done").ToBoolean() {
			return nil
		}
		f(result.Get("value"))
	}
}

func propertyKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return quote(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !(r == '$' || r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return true
}

// Quotes a string the way Node does: with single quotes, unless the string
// contains single quotes but no double quotes.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') {
		if !strings.ContainsRune(s, '"') {
			q = '"'
		} else if !strings.ContainsRune(s, '`') {
			q = '`'
		}
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch r {
		case q, '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteRune(q)
	return b.String()
}
