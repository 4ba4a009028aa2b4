package oerror

import "fmt"

// Error is an internal pacer error. It is raised for broken invariants, never for
// anything a client can cause by sending packets.
type Error struct {
	msg string
}

// New returns a new Error formatted with the arguments passed.
func New(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return "pacer: " + e.msg
}
