//go:build unix

package vmm

import (
	"testing"

	"zihai/kernel/hal/hostmem"
	"zihai/kernel/mm"
	"zihai/kernel/mm/pmm"
)

// reserveFrames returns host memory that stands in for physical frames.
func reserveFrames(t *testing.T, frames, align uintptr) *hostmem.Region {
	t.Helper()

	region, err := hostmem.Reserve(frames, align)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = region.Release() })

	return region
}

// newTestSpace returns an empty address space whose tables are allocated
// from tableFrames frames of host memory.
func newTestSpace[M mm.Mode](t *testing.T, m M, tableFrames uintptr) (*PagedAddrSpace[M], *pmm.StackFrameAllocator) {
	t.Helper()

	region := reserveFrames(t, tableFrames, mm.TableFrames(m, mm.TopLevel(m)))
	alloc := pmm.NewStackFrameAllocator(region.Start(), region.End())

	space, err := NewPagedAddrSpace(m, alloc)
	if err != nil {
		t.Fatal(err)
	}

	return space, alloc
}

// recordingAllocator logs the order in which frames are freed.
type recordingAllocator struct {
	pmm.FrameAllocator
	freed []mm.PhysPageNum
}

func (a *recordingAllocator) FreeFrame(ppn mm.PhysPageNum) {
	a.freed = append(a.freed, ppn)
	a.FrameAllocator.FreeFrame(ppn)
}
