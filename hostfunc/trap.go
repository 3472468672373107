package hostfunc

import (
	"fmt"

	"github.com/tetratelabs/wit/api"
)

// guard runs body, turning a panic or a returned error into the *same*
// *api.RuntimeError shape spec.md §4.F's ABI describes: normal return ->
// results unchanged; user-returned error -> boxed verbatim as
// RuntimeError.User; panic unwinding out of body -> caught, boxed as
// RuntimeError.User with the panic payload as its message. Neither outcome
// ever propagates the panic across this boundary.
func guard(body func() ([]api.InterfaceValue, error)) (results []api.InterfaceValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = api.NewUserError(panicPayloadErrorOf(r))
		}
	}()

	results, err = body()
	if err != nil {
		return nil, api.NewUserError(err)
	}
	return results, nil
}

type panicPayloadError struct{ payload interface{} }

func (e *panicPayloadError) Error() string {
	if err, ok := e.payload.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", e.payload)
}

func panicPayloadErrorOf(r interface{}) error { return &panicPayloadError{payload: r} }
