package pmm

import (
	"testing"

	"zihai/kernel/mm"
)

func TestFrameBox(t *testing.T) {
	alloc := NewStackFrameAllocator(0x80000, 0x80010)

	box, err := NewFrameBox(alloc)
	if err != nil {
		t.Fatal(err)
	}

	if box.PhysPageNum() != 0x80000 || box.Frames() != 1 {
		t.Fatalf("unexpected box contents: ppn 0x%x, frames %d", box.PhysPageNum(), box.Frames())
	}

	if exp, got := uintptr(15), alloc.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames; got %d", exp, got)
	}

	box.Release()
	if exp, got := uintptr(16), alloc.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after release; got %d", exp, got)
	}

	// A second release must not free the frame again.
	box.Release()
	if box.Frames() != 0 {
		t.Fatalf("expected released box to own no frames; got %d", box.Frames())
	}
}

func TestContiguousFrameBox(t *testing.T) {
	alloc := NewStackFrameAllocator(0x80001, 0x80010)

	box, err := NewContiguousFrameBox(alloc, 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	if box.PhysPageNum() != 0x80004 || box.Frames() != 4 {
		t.Fatalf("unexpected box contents: ppn 0x%x, frames %d", box.PhysPageNum(), box.Frames())
	}

	before := alloc.FreeFrames()
	box.Release()
	if exp, got := before+4, alloc.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after release; got %d", exp, got)
	}

	// Every frame of the block is available again.
	seen := make(map[mm.PhysPageNum]bool)
	for i := uintptr(0); i < before+4; i++ {
		ppn, err := alloc.AllocFrame()
		if err != nil {
			t.Fatal(err)
		}
		seen[ppn] = true
	}
	for i := mm.PhysPageNum(0); i < 4; i++ {
		if !seen[0x80004+i] {
			t.Errorf("expected frame 0x%x to be reallocated", 0x80004+i)
		}
	}
}

func TestFrameBoxAllocErrors(t *testing.T) {
	alloc := NewStackFrameAllocator(0x10, 0x10)

	if _, err := NewFrameBox(alloc); err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory; got %v", err)
	}

	if _, err := NewContiguousFrameBox(alloc, 4, 4); err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory; got %v", err)
	}
}
