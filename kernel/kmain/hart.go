package kmain

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"
	"zihai/kernel/mm/asid"
	"zihai/kernel/mm/pmm"
	"zihai/kernel/mm/vmm"
)

// identityFlags are used for the hypervisor's view of RAM.
const identityFlags = mm.FlagsRWX | mm.FlagAccessed | mm.FlagDirty | mm.FlagGlobal

var (
	// The following functions are mocked by tests.
	probeMaxASIDFn = asid.ProbeMaxASID
	activateFn     = vmm.ActivateSupervisor
)

// Hart holds the memory management state owned by a single hart.
type Hart struct {
	ID uintptr

	// ASIDs hands out the identifiers for address spaces activated on this
	// hart. Its range is probed from the hart itself.
	ASIDs *asid.StackAllocator[asid.ASID]

	// Space identity maps RAM for the hypervisor.
	Space *vmm.PagedAddrSpace[mm.Sv39]

	// ASID tags Space in the TLB.
	ASID asid.ASID

	// SATP is the satp value read back after activating Space.
	SATP uint64
}

// SetupHart builds the hypervisor address space for the calling hart and
// activates it. The page tables are allocated from frames, which may be
// shared with other harts running SetupHart at the same time.
func SetupHart(hartID uintptr, frames pmm.FrameAllocator, memStart, memEnd uintptr) (*Hart, *kernel.Error) {
	var m mm.Sv39

	maxASID := probeMaxASIDFn()
	h := &Hart{
		ID:    hartID,
		ASIDs: asid.NewASIDAllocator(maxASID),
	}

	space, err := vmm.NewPagedAddrSpace(m, frames)
	if err != nil {
		return nil, err
	}

	first := mm.PPNOf(m, mm.PhysAddr(memStart))
	last := mm.PPNOf(m, mm.PhysAddr(mm.AlignUp(memEnd, mm.PageSize(m, mm.LeafLevel))))
	if err = space.AllocateAndMap(mm.VirtPageNum(first), first, uintptr(last-first), identityFlags); err != nil {
		space.Release()
		return nil, err
	}
	h.Space = space

	if h.ASID, err = h.ASIDs.Alloc(); err != nil {
		space.Release()
		return nil, err
	}

	h.SATP = activateFn(space, h.ASID)

	kfmt.Printf("[hart %d] max ASID: %d, page table frames: %d, satp: 0x%x\n",
		hartID, uint64(maxASID), space.OwnedFrames(), h.SATP)

	return h, nil
}

// Release frees the hart's ASID and returns its page table frames. The hart
// must have switched to another address space before calling Release.
func (h *Hart) Release() {
	if h.Space == nil {
		return
	}

	h.ASIDs.Free(h.ASID)
	h.Space.Release()
	h.Space = nil
}
