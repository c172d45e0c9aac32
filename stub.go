package main

import "zihai/kernel/kmain"

// These values are populated by the rt0 code before main is invoked.
var (
	hartID      uintptr
	memStart    uintptr
	memEnd      uintptr
	kernelStart uintptr
	kernelEnd   uintptr
)

// main makes a dummy call to the actual hypervisor entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away
// the real hypervisor code.
//
// Global variables are passed as arguments to Kmain to prevent the compiler
// from inlining the actual call and removing Kmain from the generated .o
// file.
func main() {
	kmain.Kmain(hartID, memStart, memEnd, kernelStart, kernelEnd)
}
