package kernel

// Error describes a hypervisor error. All errors must be defined as global
// variables that are pointers to the Error structure so callers can compare
// them by identity; paths that run before the heap is usable cannot build
// errors with errors.New.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
