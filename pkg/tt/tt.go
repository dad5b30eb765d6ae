// Package tt supports table-driven tests with little boilerplate.
//
// A table is a list of cases built with Args(...).Rets(...); Test calls the
// function under test with each case's arguments and compares the return
// values using go-cmp.
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table is a list of test cases.
type Table []*Case

// Case is one test case.
type Case struct {
	args []any
	rets []any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets sets the wanted return values of the Case and returns it.
func (c *Case) Rets(rets ...any) *Case {
	c.rets = rets
	return c
}

// FnToTest describes a function to test.
type FnToTest struct {
	name string
	body any
}

// Fn makes a new FnToTest with the given function name and body.
func Fn(name string, body any) *FnToTest { return &FnToTest{name, body} }

// T is the subset of testing.TB used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Matcher can be used in place of a wanted return value to match it
// loosely.
type Matcher interface {
	Match(got any) bool
}

// Any matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(any) bool { return true }

// Test calls fn with the arguments of each case and reports mismatching
// return values.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		if match(test.rets, rets) {
			continue
		}
		t.Errorf("%s(%s) returns (-want +got):\n%s",
			fn.name, sprintList(test.args), cmp.Diff(test.rets, rets, cmpOpt))
	}
}

var cmpOpt = cmp.Exporter(func(reflect.Type) bool { return true })

func match(want, got []any) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if m, ok := want[i].(Matcher); ok {
			if !m.Match(got[i]) {
				return false
			}
		} else if !cmp.Equal(want[i], got[i], cmpOpt) {
			return false
		}
	}
	return true
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value; use the zero value
			// of the parameter type instead.
			argsReflect[i] = reflect.Zero(reflect.TypeOf(fn).In(i))
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, ret := range retsReflect {
		rets[i] = ret.Interface()
	}
	return rets
}

func sprintList(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}
	return strings.Join(parts, ", ")
}
