package mm

// PhysAddr is a byte address in physical memory.
type PhysAddr uintptr

// VirtAddr is a byte address in a virtual (or guest-physical) address space.
type VirtAddr uintptr

// PhysPageNum is a physical address with its frame offset bits removed. The
// number of removed bits depends on the paging mode in use.
type PhysPageNum uintptr

// VirtPageNum is a virtual address with its frame offset bits removed.
type VirtPageNum uintptr

// Next returns the page number that follows p. Validity of the result with
// respect to a mode's PPN width is the caller's concern; the value simply
// wraps around on overflow.
func (p PhysPageNum) Next() PhysPageNum {
	return p + 1
}

// WithinRange returns true if p lies in the half-open range [begin, end). If
// begin > end the range is assumed to wrap around through zero.
func (p PhysPageNum) WithinRange(begin, end PhysPageNum) bool {
	if begin <= end {
		return begin <= p && p < end
	}
	return begin <= p || p < end
}

// PPNOf returns the physical page number containing pa.
func PPNOf[M Mode](m M, pa PhysAddr) PhysPageNum {
	return PhysPageNum(pa >> m.FrameShift())
}

// VPNOf returns the virtual page number containing va.
func VPNOf[M Mode](m M, va VirtAddr) VirtPageNum {
	return VirtPageNum(va >> m.FrameShift())
}

// PhysAddrOf returns the address of the first byte of ppn.
func PhysAddrOf[M Mode](m M, ppn PhysPageNum) PhysAddr {
	return PhysAddr(ppn << m.FrameShift())
}

// VirtAddrOf returns the address of the first byte of vpn.
func VirtAddrOf[M Mode](m M, vpn VirtPageNum) VirtAddr {
	return VirtAddr(vpn << m.FrameShift())
}

// PageOffset returns the offset of va inside the page of the given level that
// contains it.
func PageOffset[M Mode](m M, va VirtAddr, lvl Level) uintptr {
	return uintptr(va) & (PageSize(m, lvl) - 1)
}

// NextPageByLevel returns the first page of the level-lvl block that follows
// the block containing vpn.
func NextPageByLevel[M Mode](m M, vpn VirtPageNum, lvl Level) VirtPageNum {
	step := VirtPageNum(LayoutFor(m, lvl).AlignInFrames())
	return AlignDown(vpn, step) + step
}
