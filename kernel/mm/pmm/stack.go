package pmm

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"
)

// StackFrameAllocator hands out frames from a contiguous range [start, end).
// Fresh frames are taken from a watermark that only moves forward; freed
// frames are kept on a stack and are reused before the watermark advances.
//
// StackFrameAllocator is not safe for concurrent use; wrap it in a
// LockedFrameAllocator when it is shared between harts.
type StackFrameAllocator struct {
	start    mm.PhysPageNum
	current  mm.PhysPageNum
	end      mm.PhysPageNum
	recycled []mm.PhysPageNum
}

// NewStackFrameAllocator returns an allocator managing the frames in
// [start, end).
func NewStackFrameAllocator(start, end mm.PhysPageNum) *StackFrameAllocator {
	if end < start {
		end = start
	}

	return &StackFrameAllocator{
		start:   start,
		current: start,
		end:     end,
	}
}

// AllocFrame implements FrameAllocator.
func (alloc *StackFrameAllocator) AllocFrame() (mm.PhysPageNum, *kernel.Error) {
	if n := len(alloc.recycled); n != 0 {
		ppn := alloc.recycled[n-1]
		alloc.recycled = alloc.recycled[:n-1]
		return ppn, nil
	}

	if alloc.current == alloc.end {
		return 0, ErrOutOfMemory
	}

	ppn := alloc.current
	alloc.current++
	return ppn, nil
}

// AllocFrames implements FrameAllocator. Contiguous blocks are always carved
// out of the watermark; any frames skipped to satisfy the alignment are
// pushed to the recycled stack so they remain available to AllocFrame.
func (alloc *StackFrameAllocator) AllocFrames(count, align uintptr) (mm.PhysPageNum, *kernel.Error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errBadAlignment
	}

	if count == 1 && align == 1 {
		return alloc.AllocFrame()
	}

	first := mm.AlignUp(alloc.current, mm.PhysPageNum(align))
	if first < alloc.current || first > alloc.end || uintptr(alloc.end-first) < count {
		return 0, ErrOutOfMemory
	}

	for ppn := alloc.current; ppn < first; ppn++ {
		alloc.recycled = append(alloc.recycled, ppn)
	}

	alloc.current = first + mm.PhysPageNum(count)
	return first, nil
}

// FreeFrame implements FrameAllocator.
func (alloc *StackFrameAllocator) FreeFrame(ppn mm.PhysPageNum) {
	switch {
	case !ppn.WithinRange(alloc.start, alloc.end):
		kfmt.Printf("[frame_alloc] frame 0x%x is outside [0x%x, 0x%x)\n", ppn, alloc.start, alloc.end)
		panicFn(errFrameOutOfRange)
		return
	case ppn >= alloc.current:
		kfmt.Printf("[frame_alloc] frame 0x%x has not been allocated\n", ppn)
		panicFn(errFrameNotAllocated)
		return
	}

	for _, free := range alloc.recycled {
		if free == ppn {
			kfmt.Printf("[frame_alloc] frame 0x%x is freed twice\n", ppn)
			panicFn(errDoubleFree)
			return
		}
	}

	alloc.recycled = append(alloc.recycled, ppn)
}

// FreeFrames returns the number of frames that can still be allocated.
func (alloc *StackFrameAllocator) FreeFrames() uintptr {
	return uintptr(alloc.end-alloc.current) + uintptr(len(alloc.recycled))
}

// Watermark returns the first frame that has never been handed out.
func (alloc *StackFrameAllocator) Watermark() mm.PhysPageNum {
	return alloc.current
}
