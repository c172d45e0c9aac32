package vmm

import (
	"testing"

	"zihai/kernel"
)

func expectPanic(t *testing.T, expErr *kernel.Error, fn func()) {
	t.Helper()

	defer func(origPanic func(interface{})) {
		panicFn = origPanic
	}(panicFn)
	panicFn = func(e interface{}) {
		panic(e)
	}

	defer func() {
		if r := recover(); r != expErr {
			t.Fatalf("expected panic with error %v; got %v", expErr, r)
		}
	}()

	fn()
}
