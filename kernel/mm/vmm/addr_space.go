package vmm

import (
	"zihai/kernel"
	"zihai/kernel/mm"
	"zihai/kernel/mm/pmm"
)

// PagedAddrSpace is an address space translated by a page table tree in the
// layout of mode M. It owns the root table and every intermediate table it
// creates; the frames it maps are owned by the caller.
type PagedAddrSpace[M mm.Mode] struct {
	mode  M
	alloc pmm.FrameAllocator

	root *pmm.FrameBox

	// frames holds the intermediate tables in creation order.
	frames []*pmm.FrameBox
}

// NewPagedAddrSpace allocates and clears a root table for an empty address
// space. Tables created later are obtained from the same allocator.
func NewPagedAddrSpace[M mm.Mode](mode M, alloc pmm.FrameAllocator) (*PagedAddrSpace[M], *kernel.Error) {
	s := &PagedAddrSpace[M]{mode: mode, alloc: alloc}

	root, err := s.newTable(mm.TopLevel(mode))
	if err != nil {
		return nil, err
	}

	s.root = root
	return s, nil
}

// Mode returns the paging mode of the address space.
func (s *PagedAddrSpace[M]) Mode() M {
	return s.mode
}

// RootPageNum returns the first frame of the root table.
func (s *PagedAddrSpace[M]) RootPageNum() mm.PhysPageNum {
	s.mustBeLive()
	return s.root.PhysPageNum()
}

// OwnedFrames returns the number of frames held by the address space's page
// tables.
func (s *PagedAddrSpace[M]) OwnedFrames() uintptr {
	if s.root == nil {
		return 0
	}

	count := s.root.Frames()
	for _, box := range s.frames {
		count += box.Frames()
	}
	return count
}

// Release returns every table frame to the allocator, intermediate tables
// first (most recent first) and the root last. The address space must not
// be used afterwards; calling Release again is a no-op.
func (s *PagedAddrSpace[M]) Release() {
	if s.root == nil {
		return
	}

	for i := len(s.frames) - 1; i >= 0; i-- {
		s.frames[i].Release()
	}
	s.frames = nil

	s.root.Release()
	s.root = nil
}

// FindEntry walks the page table from the root and returns the first leaf
// that covers vpn together with the level it was found at.
func (s *PagedAddrSpace[M]) FindEntry(vpn mm.VirtPageNum) (mm.PageTableEntry, mm.Level, *kernel.Error) {
	ppn := s.RootPageNum()

	levels := mm.LevelsUntil(s.mode, mm.LeafLevel)
	for lvl, ok := levels.Next(); ok; lvl, ok = levels.Next() {
		entry := mm.TableAt(s.mode, ppn, lvl)[mm.IndexOf(s.mode, vpn, lvl)]

		switch {
		case !entry.Valid():
			return 0, 0, ErrInvalidEntry
		case entry.IsLeaf():
			return entry, lvl, nil
		}

		ppn = entry.PPN()
	}

	return 0, 0, ErrNotLeafInLowestLevel
}

// newTable allocates and clears the frames for a table of the given level.
func (s *PagedAddrSpace[M]) newTable(lvl mm.Level) (*pmm.FrameBox, *kernel.Error) {
	frames := mm.TableFrames(s.mode, lvl)

	box, err := pmm.NewContiguousFrameBox(s.alloc, frames, frames)
	if err != nil {
		return nil, err
	}

	mm.InitTable(s.mode, box.PhysPageNum(), lvl)
	return box, nil
}

func (s *PagedAddrSpace[M]) mustBeLive() {
	if s.root == nil {
		panicFn(errSpaceReleased)
	}
}
