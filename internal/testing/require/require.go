// Package require contains test assertion helpers shared across this
// module's test suites. It is a thin, test-only veneer over testify/require,
// trimmed to the handful of assertions this repository's tests use, so call
// sites read the same regardless of which package defines the test.
package require

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// Equal fails the test if expected != actual.
func Equal(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	require.Equal(t, expected, actual, msgAndArgs...)
}

// NoError fails the test if err != nil.
func NoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	require.NoError(t, err, msgAndArgs...)
}

// Error fails the test if err == nil.
func Error(t *testing.T, err error, msgAndArgs ...interface{}) {
	require.Error(t, err, msgAndArgs...)
}

// Zero fails the test if v is not the zero value for its type.
func Zero(t *testing.T, v interface{}, msgAndArgs ...interface{}) {
	require.Zero(t, v, msgAndArgs...)
}

// CapturePanic invokes fn and, if it panics, returns the recovered value
// boxed as an error (the recovered value itself when it already is one).
func CapturePanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
			} else {
				err = &panicError{r}
			}
		}
	}()
	fn()
	return
}

type panicError struct{ payload interface{} }

func (p *panicError) Error() string {
	if s, ok := p.payload.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", p.payload)
}
