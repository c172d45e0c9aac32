package kmain

import (
	"io"

	"zihai/kernel"
	"zihai/kernel/driver/console"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"
	"zihai/kernel/mm/pmm"
)

var (
	// The following functions are mocked by tests.
	panicFn         = kfmt.Panic
	consoleFn       = func() io.Writer { return console.SBI{} }
	newFrameAllocFn = pmm.NewLockedFrameAllocator

	errKmainReturned  = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
	errNoUsableMemory = &kernel.Error{Module: "kmain", Message: "no usable memory after the hypervisor image"}
)

// Kmain is the Go entrypoint invoked by the rt0 code on the boot hart once a
// stack is available and paging is still disabled.
//
// The rt0 code passes the hart ID, the bounds of RAM and the physical
// addresses where the hypervisor image starts and ends. Every frame between
// the end of the image and the end of RAM is handed to the frame allocator
// shared by all harts.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// hart.
//
//go:noinline
func Kmain(hartID, memStart, memEnd, kernelStart, kernelEnd uintptr) {
	kfmt.SetOutputSink(consoleFn())

	var m mm.Sv39
	firstFree := mm.PPNOf(m, mm.PhysAddr(mm.AlignUp(kernelEnd, mm.PageSize(m, mm.LeafLevel))))
	end := mm.PPNOf(m, mm.PhysAddr(memEnd))
	if firstFree >= end {
		kfmt.Printf("[kmain] image end 0x%x leaves no frames below 0x%x\n", kernelEnd, memEnd)
		panicFn(errNoUsableMemory)
		return
	}

	frames := newFrameAllocFn(firstFree, end)
	printMemoryMap(memStart, memEnd, kernelStart, kernelEnd, frames)

	if _, err := SetupHart(hartID, frames, memStart, memEnd); err != nil {
		panicFn(err)
		return
	}

	// Use panicFn instead of panic to prevent the compiler from treating
	// kfmt.Panic as dead-code and eliminating it.
	panicFn(errKmainReturned)
}

// printMemoryMap logs the physical memory layout seen at boot.
func printMemoryMap(memStart, memEnd, kernelStart, kernelEnd uintptr, frames *pmm.LockedFrameAllocator) {
	var m mm.Sv39
	w := kfmt.PrefixWriter{Sink: kfmt.GetOutputSink(), Prefix: []byte("[kmain] ")}

	kfmt.Fprintf(&w, "physical memory map:\n")
	kfmt.Fprintf(&w, "  RAM   [0x%10x - 0x%10x], size: %dKb\n", memStart, memEnd, uint64(mm.Size(memEnd-memStart)/mm.Kb))
	kfmt.Fprintf(&w, "  image [0x%10x - 0x%10x], size: %dKb\n", kernelStart, kernelEnd, uint64(mm.Size(kernelEnd-kernelStart)/mm.Kb))
	kfmt.Fprintf(&w, "free memory: %dKb (%d frames from 0x%x)\n",
		uint64(mm.FramesSize(m, frames.FreeFrames())/mm.Kb), frames.FreeFrames(), frames.Watermark())
}
