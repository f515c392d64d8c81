package requesthandler

import "fmt"

// Error reports a failed request check as a value: a protocol status
// code plus a comment for the remote caller. Validators return nil on
// success; status and comment are only meaningful on failure.
type Error struct {
	// Status is the protocol status code.
	Status Status

	// Comment is a client-facing description naming the offending key
	// and, where relevant, the bound or resource identifier.
	Comment string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Status, int(e.Status), e.Comment)
}

// NewError creates an Error with a formatted comment.
func NewError(status Status, format string, args ...any) *Error {
	return &Error{
		Status:  status,
		Comment: fmt.Sprintf(format, args...),
	}
}
