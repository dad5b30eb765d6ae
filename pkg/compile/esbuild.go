package compile

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[compile] ")

// DefaultTarget is the language version ESBuild compiles down to when no
// Target is given.
const DefaultTarget = api.ES2017

// ESBuild compiles TypeScript with esbuild, stripping types and lowering
// syntax newer than Target.
type ESBuild struct {
	Target api.Target
}

func (c ESBuild) target() api.Target {
	if c.Target == api.DefaultTarget {
		return DefaultTarget
	}
	return c.Target
}

// Salt identifies the output of c, for use with NewCached. It changes when
// the target or the version of esbuild changes.
func (c ESBuild) Salt() string {
	return fmt.Sprintf("esbuild %s target %d", esbuildVersion(), c.target())
}

// Returns the version of the esbuild module linked into the binary.
func esbuildVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path != "github.com/evanw/esbuild" {
				continue
			}
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}

// Compile implements Compiler.
func (c ESBuild) Compile(name, code string) (string, error) {
	target := c.target()
	result := api.Transform(code, api.TransformOptions{
		Loader:     api.LoaderTS,
		Target:     target,
		Sourcefile: name,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors[1:] {
			logger.Printf("dropping further error in %s: %s", name, msg.Text)
		}
		return "", toDiagError(name, code, result.Errors[0])
	}
	return string(result.Code), nil
}

func toDiagError(name, code string, msg api.Message) *diag.Error {
	e := &diag.Error{Type: "SyntaxError", Message: normalizeMessage(msg.Text)}
	if loc := msg.Location; loc != nil {
		e.Context = *diag.PositionContext(name, code, loc.Line, loc.Column, loc.Length)
	} else {
		e.Context = *diag.NewContext(name, code, diag.PointRanging(len(code)))
	}
	return e
}

// Rewrites esbuild's wording of errors at the end of the input, like
// `Expected "}" but found end of file`, to the one used by the JavaScript
// runtime, so that incomplete input is recognized the same way regardless of
// where the error came from.
func normalizeMessage(text string) string {
	if strings.HasSuffix(text, "end of file") {
		if expected, ok := strings.CutPrefix(text, "Expected "); ok {
			expected = strings.TrimSuffix(expected, " but found end of file")
			return "Unexpected end of input, expected " + expected
		}
		return "Unexpected end of input"
	}
	return text
}

var targets = map[string]api.Target{
	"es2015": api.ES2015, "es6": api.ES2015,
	"es2016": api.ES2016, "es2017": api.ES2017, "es2018": api.ES2018,
	"es2019": api.ES2019, "es2020": api.ES2020, "es2021": api.ES2021,
	"es2022": api.ES2022, "esnext": api.ESNext,
}

// ParseTarget parses a target name like "es2020". The empty string parses to
// DefaultTarget.
func ParseTarget(s string) (api.Target, error) {
	if s == "" {
		return DefaultTarget, nil
	}
	if t, ok := targets[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown target %q", s)
}
