package shell

import (
	"errors"
	"testing"

	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/eval"
)

func TestErrorsToJSON(t *testing.T) {
	ctx := diag.NewContext("a.ts", "let 1", diag.Ranging{From: 4, To: 5})
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, `[]`},
		{"diag.Error",
			&diag.Error{Type: "SyntaxError", Message: "bad", Context: *ctx},
			`[{"fileName":"a.ts","start":4,"end":5,"message":"bad"}]`},
		{"Exception with context",
			&eval.Exception{Kind: "SyntaxError", Message: "bad", Context: ctx},
			`[{"fileName":"a.ts","start":4,"end":5,"message":"bad"}]`},
		{"other",
			errors.New("oops"),
			`[{"fileName":"","start":0,"end":0,"message":"oops"}]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := string(errorsToJSON(test.err)); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}
