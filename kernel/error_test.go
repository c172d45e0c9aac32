package kernel

import "testing"

func TestKernelError(t *testing.T) {
	err := &Error{
		Module:  "frame_alloc",
		Message: "out of memory",
	}

	if err.Error() != err.Message {
		t.Fatalf("expected to err.Error() to return %q; got %q", err.Message, err.Error())
	}

	var asErr error = err
	if asErr != error(err) {
		t.Fatal("expected error values to compare by identity")
	}
}
