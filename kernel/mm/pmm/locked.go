package pmm

import (
	"zihai/kernel"
	"zihai/kernel/mm"
	"zihai/kernel/sync"
)

// LockedFrameAllocator serializes access to a StackFrameAllocator so that a
// single instance can serve every hart.
type LockedFrameAllocator struct {
	lock  sync.Spinlock
	inner *StackFrameAllocator
}

// NewLockedFrameAllocator returns a lock-guarded allocator for the frames in
// [start, end).
func NewLockedFrameAllocator(start, end mm.PhysPageNum) *LockedFrameAllocator {
	return &LockedFrameAllocator{
		inner: NewStackFrameAllocator(start, end),
	}
}

// AllocFrame implements FrameAllocator.
func (alloc *LockedFrameAllocator) AllocFrame() (mm.PhysPageNum, *kernel.Error) {
	alloc.lock.Acquire()
	defer alloc.lock.Release()
	return alloc.inner.AllocFrame()
}

// AllocFrames implements FrameAllocator.
func (alloc *LockedFrameAllocator) AllocFrames(count, align uintptr) (mm.PhysPageNum, *kernel.Error) {
	alloc.lock.Acquire()
	defer alloc.lock.Release()
	return alloc.inner.AllocFrames(count, align)
}

// FreeFrame implements FrameAllocator.
func (alloc *LockedFrameAllocator) FreeFrame(ppn mm.PhysPageNum) {
	alloc.lock.Acquire()
	defer alloc.lock.Release()
	alloc.inner.FreeFrame(ppn)
}

// FreeFrames returns the number of frames that can still be allocated.
func (alloc *LockedFrameAllocator) FreeFrames() uintptr {
	alloc.lock.Acquire()
	defer alloc.lock.Release()
	return alloc.inner.FreeFrames()
}

// Watermark returns the first frame that has never been handed out.
func (alloc *LockedFrameAllocator) Watermark() mm.PhysPageNum {
	alloc.lock.Acquire()
	defer alloc.lock.Release()
	return alloc.inner.Watermark()
}
