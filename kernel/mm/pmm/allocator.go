// Package pmm manages physical frame allocations for page tables and the
// memory mapped into address spaces.
package pmm

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"
)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	// ErrOutOfMemory is returned when an allocation request cannot be
	// satisfied by the remaining frames.
	ErrOutOfMemory = &kernel.Error{Module: "frame_alloc", Message: "out of memory"}

	errFrameNotAllocated = &kernel.Error{Module: "frame_alloc", Message: "frame was never allocated"}
	errFrameOutOfRange   = &kernel.Error{Module: "frame_alloc", Message: "frame is outside of the managed range"}
	errDoubleFree        = &kernel.Error{Module: "frame_alloc", Message: "frame is already free"}
	errBadAlignment      = &kernel.Error{Module: "frame_alloc", Message: "alignment must be a non-zero power of two"}
)

// FrameAllocator is implemented by objects that hand out physical frames.
type FrameAllocator interface {
	// AllocFrame reserves a single frame.
	AllocFrame() (mm.PhysPageNum, *kernel.Error)

	// AllocFrames reserves count contiguous frames whose first frame is a
	// multiple of align. Frames obtained this way are returned one by one
	// through FreeFrame.
	AllocFrames(count, align uintptr) (mm.PhysPageNum, *kernel.Error)

	// FreeFrame returns a frame previously obtained from this allocator.
	// Freeing a frame that is not currently allocated is a contract
	// violation and halts the hart.
	FreeFrame(ppn mm.PhysPageNum)
}
