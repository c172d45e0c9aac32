package vmm

import (
	"unsafe"

	"zihai/kernel"
	"zihai/kernel/mm"
)

// TranslateFrameRead resolves length bytes starting at va in space and
// invokes fn for every physically contiguous fragment with the leaf's frame,
// the byte offset inside the leaf's block and the fragment length. The walk
// is repeated at every block boundary so fragments never span two leaves.
//
// The first lookup error stops the walk and is returned; fn has already been
// called for the fragments before it.
func TranslateFrameRead[M mm.Mode](space *PagedAddrSpace[M], va mm.VirtAddr, length uintptr, fn func(ppn mm.PhysPageNum, offset, length uintptr)) *kernel.Error {
	m := space.Mode()

	for length > 0 {
		vpn := mm.VPNOf(m, va)
		entry, lvl, err := space.FindEntry(vpn)
		if err != nil {
			return err
		}

		offset := mm.PageOffset(m, va, lvl)
		fragment := mm.PageSize(m, lvl) - offset
		if fragment > length {
			fragment = length
		}

		fn(entry.PPN(), offset, fragment)

		length -= fragment
		va = mm.VirtAddrOf(m, mm.NextPageByLevel(m, vpn, lvl))
	}

	return nil
}

// ReadFrom fills dst with the bytes mapped at va in space. The frames backing
// the range must be reachable through the hypervisor's identity mapping.
func ReadFrom[M mm.Mode](space *PagedAddrSpace[M], va mm.VirtAddr, dst []byte) *kernel.Error {
	var copied uintptr

	return TranslateFrameRead(space, va, uintptr(len(dst)), func(ppn mm.PhysPageNum, offset, length uintptr) {
		src := uintptr(mm.PhysAddrOf(space.Mode(), ppn)) + offset
		copy(dst[copied:], unsafe.Slice((*byte)(unsafe.Pointer(src)), length))
		copied += length
	})
}
