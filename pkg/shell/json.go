package shell

import (
	"encoding/json"
	"errors"

	"src.tsrepl.dev/pkg/diag"
	"src.tsrepl.dev/pkg/eval"
)

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts a compile error into a JSON array. A nil error becomes an empty
// array.
func errorsToJSON(err error) []byte {
	converted := []errorInJSON{}
	if err != nil {
		converted = append(converted, toErrorInJSON(err))
	}
	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}

func toErrorInJSON(err error) errorInJSON {
	var diagErr *diag.Error
	if errors.As(err, &diagErr) {
		c := diagErr.Context
		return errorInJSON{c.Name, c.From, c.To, diagErr.Message}
	}
	var exc *eval.Exception
	if errors.As(err, &exc) && exc.Context != nil {
		c := exc.Context
		return errorInJSON{c.Name, c.From, c.To, exc.Message}
	}
	return errorInJSON{Message: err.Error()}
}
