package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/tt"
)

func TestESBuild_StripsTypes(t *testing.T) {
	tt.Test(t, tt.Fn("compile", compileESBuild), tt.Table{
		tt.Args("const x: number = 1").Rets("const x = 1;\n", ""),
		tt.Args("let f = (a: string): number => a.length").
			Rets("let f = (a) => a.length;\n", ""),
		tt.Args("interface I { a: number }").Rets("", ""),
	})
}

func compileESBuild(code string) (string, string) {
	js, err := ESBuild{}.Compile("[test].ts", code)
	if err != nil {
		return "", err.Error()
	}
	return js, ""
}

func TestESBuild_LowersSyntax(t *testing.T) {
	js, err := ESBuild{Target: api.ES2017}.Compile("[test].ts", "a ?? b")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(js, "??") {
		t.Errorf("got %q, want ?? lowered", js)
	}
}

func TestESBuild_Errors(t *testing.T) {
	tt.Test(t, tt.Fn("compileError", compileError), tt.Table{
		tt.Args("1 +").Rets("SyntaxError", "Unexpected end of input", 3),
		tt.Args("function f() {").
			Rets("SyntaxError", `Unexpected end of input, expected "}"`, 14),
		tt.Args("let 1 = 2").Rets("SyntaxError", tt.Any, 4),
	})
}

func compileError(code string) (string, any, int) {
	_, err := ESBuild{}.Compile("[test].ts", code)
	var e *diag.Error
	if !errors.As(err, &e) {
		return "", nil, -1
	}
	if e.Context.Name != "[test].ts" || e.Context.Source != code {
		return "wrong context", nil, -1
	}
	return e.Type, e.Message, e.Context.From
}

func TestNormalizeMessage(t *testing.T) {
	tt.Test(t, tt.Fn("normalizeMessage", normalizeMessage), tt.Table{
		tt.Args("Unexpected end of file").Rets("Unexpected end of input"),
		tt.Args(`Expected ")" but found end of file`).
			Rets(`Unexpected end of input, expected ")"`),
		tt.Args(`Unexpected ")"`).Rets(`Unexpected ")"`),
		tt.Args(`Expected identifier but found "1"`).Rets(`Expected identifier but found "1"`),
	})
}

func TestParseTarget(t *testing.T) {
	tt.Test(t, tt.Fn("ParseTarget", ParseTarget), tt.Table{
		tt.Args("").Rets(DefaultTarget, nil),
		tt.Args("ES2020").Rets(api.ES2020, nil),
		tt.Args("esnext").Rets(api.ESNext, nil),
		tt.Args("es1999").Rets(api.Target(0), errors.New(`unknown target "es1999"`)),
	})
}

type mapCache map[string]string

func (c mapCache) GetCompiled(key string) (string, error) {
	if js, ok := c[key]; ok {
		return js, nil
	}
	return "", errors.New("not found")
}

func (c mapCache) PutCompiled(key, js string) error {
	c[key] = js
	return nil
}

func TestESBuild_Salt(t *testing.T) {
	def, es2020 := ESBuild{}.Salt(), ESBuild{Target: api.ES2020}.Salt()
	if def != (ESBuild{Target: DefaultTarget}).Salt() {
		t.Errorf("default target and DefaultTarget have different salts")
	}
	if def == es2020 {
		t.Errorf("different targets have the same salt %q", def)
	}
	if !strings.Contains(def, esbuildVersion()) {
		t.Errorf("salt %q doesn't contain the esbuild version %q", def, esbuildVersion())
	}
}

func TestCached(t *testing.T) {
	calls := 0
	inner := Func(func(name, code string) (string, error) {
		calls++
		if code == "bad" {
			return "", errors.New("bad code")
		}
		return strings.ToUpper(code), nil
	})
	cache := mapCache{}
	c := NewCached(inner, cache, "es2017")

	for i := 0; i < 2; i++ {
		js, err := c.Compile("a.ts", "x")
		if js != "X" || err != nil {
			t.Errorf("got (%q, %v), want (%q, nil)", js, err, "X")
		}
	}
	if calls != 1 {
		t.Errorf("inner compiler called %d times, want 1", calls)
	}

	// Different names and salts are cached separately.
	c.Compile("b.ts", "x")
	NewCached(inner, cache, "es2020").Compile("a.ts", "x")
	if calls != 3 {
		t.Errorf("inner compiler called %d times, want 3", calls)
	}

	// Failures are not cached.
	for i := 0; i < 2; i++ {
		if _, err := c.Compile("a.ts", "bad"); err == nil {
			t.Errorf("got nil error for bad code")
		}
	}
	if calls != 5 {
		t.Errorf("inner compiler called %d times, want 5", calls)
	}
	if len(cache) != 3 {
		t.Errorf("cache has %d entries, want 3", len(cache))
	}
}
