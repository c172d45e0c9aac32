package pmm

import (
	"zihai/kernel"
	"zihai/kernel/mm"
)

// FrameBox owns one or more contiguous frames obtained from an allocator and
// gives them back when released. A FrameBox is the only holder of its
// frames; copying the struct value would create a second owner and must be
// avoided.
type FrameBox struct {
	ppn    mm.PhysPageNum
	frames uintptr
	alloc  FrameAllocator
}

// NewFrameBox allocates a single frame.
func NewFrameBox(alloc FrameAllocator) (*FrameBox, *kernel.Error) {
	ppn, err := alloc.AllocFrame()
	if err != nil {
		return nil, err
	}

	return &FrameBox{ppn: ppn, frames: 1, alloc: alloc}, nil
}

// NewContiguousFrameBox allocates count contiguous frames aligned to align
// frames.
func NewContiguousFrameBox(alloc FrameAllocator, count, align uintptr) (*FrameBox, *kernel.Error) {
	ppn, err := alloc.AllocFrames(count, align)
	if err != nil {
		return nil, err
	}

	return &FrameBox{ppn: ppn, frames: count, alloc: alloc}, nil
}

// PhysPageNum returns the first owned frame.
func (b *FrameBox) PhysPageNum() mm.PhysPageNum {
	return b.ppn
}

// Frames returns the number of owned frames. It returns 0 once the box has
// been released.
func (b *FrameBox) Frames() uintptr {
	return b.frames
}

// Release returns the owned frames to their allocator. Subsequent calls are
// no-ops.
func (b *FrameBox) Release() {
	for i := uintptr(0); i < b.frames; i++ {
		b.alloc.FreeFrame(b.ppn + mm.PhysPageNum(i))
	}
	b.frames = 0
}
