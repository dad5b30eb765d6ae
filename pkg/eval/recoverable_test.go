package eval

import (
	"errors"
	"fmt"
	"testing"

	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/tt"
)

func TestIsRecoverable(t *testing.T) {
	tt.Test(t, tt.Fn("IsRecoverable", IsRecoverable), tt.Table{
		tt.Args(&diag.Error{Type: "SyntaxError", Message: "Unexpected end of input"}).Rets(true),
		tt.Args(&diag.Error{Type: "SyntaxError", Message: `Unexpected end of input, expected "}"`}).Rets(true),
		tt.Args(&Exception{Kind: "SyntaxError", Message: "Unexpected token )"}).Rets(true),
		tt.Args(fmt.Errorf("wrapped: %w",
			&Exception{Kind: "SyntaxError", Message: "Unexpected end of input"})).Rets(true),

		tt.Args(&Exception{Kind: "SyntaxError", Message: "Unexpected number"}).Rets(false),
		tt.Args(&Exception{Kind: "SyntaxError", Message: "unexpected end of input"}).Rets(false),
		tt.Args(&Exception{Kind: "TypeError", Message: "Unexpected token x"}).Rets(false),
		tt.Args(&diag.Error{Type: "SyntaxError", Message: `Expected identifier but found "1"`}).Rets(false),
		tt.Args(&Exception{Kind: "ReferenceError", Message: "x is not defined"}).Rets(false),
		tt.Args(errors.New("SyntaxError: Unexpected end of input")).Rets(false),
		tt.Args(nil).Rets(false),
	})
}
