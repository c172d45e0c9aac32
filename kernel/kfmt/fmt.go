// Package kfmt implements the hypervisor's console logging and panic
// reporting.
package kfmt

import (
	"fmt"
	"io"

	"zihai/kernel/sync"
)

var (
	// earlyPrintBuffer is a ring buffer that stores Printf output before a
	// console sink is attached.
	earlyPrintBuffer ringBuffer

	// outputSink is an io.Writer where Printf will send its output. If set
	// to nil, then the output will be redirected to the earlyPrintBuffer.
	outputSink io.Writer

	// printLock serializes output from harts logging at the same time.
	printLock sync.Spinlock
)

// SetOutputSink sets the default target for calls to Printf to w and copies
// any data accumulated in the earlyPrintBuffer to it.
func SetOutputSink(w io.Writer) {
	printLock.Acquire()
	defer printLock.Release()

	outputSink = w
	if w != nil {
		_, _ = io.Copy(w, &earlyPrintBuffer)
	}
}

// GetOutputSink returns the default target for calls to Printf.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf formats according to a format specifier and writes the result to
// the active output sink. If no sink has been attached yet, the output is
// buffered and replayed once SetOutputSink is called. The buffer keeps only
// the most recent ringBufferSize bytes.
func Printf(format string, args ...interface{}) {
	printLock.Acquire()
	defer printLock.Release()

	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer. A nil writer selects the early print buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	if w == nil {
		w = &earlyPrintBuffer
	}

	_, _ = fmt.Fprintf(w, format, args...)
}
