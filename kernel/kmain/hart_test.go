//go:build unix

package kmain

import (
	gosync "sync"
	"testing"

	"zihai/kernel/hal/hostmem"
	"zihai/kernel/mm"
	"zihai/kernel/mm/asid"
	"zihai/kernel/mm/pmm"
	"zihai/kernel/mm/vmm"
)

const (
	testRAMStart = uintptr(0x80000000)
	testRAMEnd   = uintptr(0x88000000)
)

func mockHartCSRs(t *testing.T, maxASID asid.ASID) {
	t.Helper()

	origProbe, origActivate := probeMaxASIDFn, activateFn
	t.Cleanup(func() {
		probeMaxASIDFn = origProbe
		activateFn = origActivate
	})

	probeMaxASIDFn = func() asid.ASID { return maxASID }
	activateFn = func(space *vmm.PagedAddrSpace[mm.Sv39], id asid.ASID) uint64 {
		return vmm.SATPBits(mm.Sv39{}, id, space.RootPageNum())
	}
}

func newTableAllocator(t *testing.T, frames uintptr) *pmm.LockedFrameAllocator {
	t.Helper()

	region, err := hostmem.Reserve(frames, 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = region.Release() })

	return pmm.NewLockedFrameAllocator(region.Start(), region.End())
}

func TestSetupHart(t *testing.T) {
	mockHartCSRs(t, 0x1ff)
	frames := newTableAllocator(t, 2)

	h, err := SetupHart(3, frames, testRAMStart, testRAMEnd)
	if err != nil {
		t.Fatal(err)
	}

	if h.ID != 3 || h.ASID != asid.DefaultASID || h.ASIDs.Max() != 0x1ff {
		t.Fatalf("unexpected hart state: id %d, asid %d, max asid %d", h.ID, h.ASID, h.ASIDs.Max())
	}

	// 128M of RAM fits in 64 2M leaves of a single level 1 table.
	if exp, got := uintptr(2), h.Space.OwnedFrames(); got != exp {
		t.Fatalf("expected %d page table frames; got %d", exp, got)
	}

	if exp := vmm.SATPBits(mm.Sv39{}, 0, h.Space.RootPageNum()); h.SATP != exp {
		t.Fatalf("expected satp 0x%x; got 0x%x", exp, h.SATP)
	}

	for _, addr := range []uintptr{testRAMStart, testRAMStart + 0x1234567, testRAMEnd - 1} {
		vpn := mm.VPNOf(mm.Sv39{}, mm.VirtAddr(addr))
		entry, lvl, err := h.Space.FindEntry(vpn)
		if err != nil {
			t.Fatalf("unexpected error looking up 0x%x: %v", addr, err)
		}

		blockStart := mm.AlignDown(vpn, mm.VirtPageNum(mm.LayoutFor(mm.Sv39{}, lvl).AlignInFrames()))
		if lvl != 1 || entry.PPN() != mm.PhysPageNum(blockStart) {
			t.Fatalf("expected 0x%x to be identity mapped by a 2M leaf; got level %d, ppn 0x%x", addr, lvl, entry.PPN())
		}

		if !entry.HasFlags(identityFlags) {
			t.Fatalf("expected flags %s; got %s", identityFlags, entry.Flags())
		}
	}

	if _, _, err := h.Space.FindEntry(mm.VPNOf(mm.Sv39{}, mm.VirtAddr(testRAMEnd))); err != vmm.ErrInvalidEntry {
		t.Fatalf("expected memory past RAM to be unmapped; got %v", err)
	}

	h.Release()
	if exp, got := uintptr(2), frames.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after release; got %d", exp, got)
	}
	if exp, got := uint64(0x200), h.ASIDs.Available(); got != exp {
		t.Fatalf("expected %d ASIDs available after release; got %d", exp, got)
	}

	// Releasing twice is a no-op.
	h.Release()
}

func TestSetupHartOutOfMemory(t *testing.T) {
	mockHartCSRs(t, 0)
	frames := newTableAllocator(t, 1)

	if _, err := SetupHart(0, frames, testRAMStart, testRAMEnd); err != pmm.ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory; got %v", err)
	}

	// The root table is given back.
	if exp, got := uintptr(1), frames.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames; got %d", exp, got)
	}
}

func TestSetupHartConcurrent(t *testing.T) {
	const harts = 8

	mockHartCSRs(t, 0xffff)
	frames := newTableAllocator(t, 2*harts)

	var (
		wg     gosync.WaitGroup
		result [harts]*Hart
		errs   [harts]error
	)

	for hartID := 0; hartID < harts; hartID++ {
		wg.Add(1)
		go func(hartID int) {
			defer wg.Done()
			h, err := SetupHart(uintptr(hartID), frames, testRAMStart, testRAMEnd)
			if err != nil {
				errs[hartID] = err
				return
			}
			result[hartID] = h
		}(hartID)
	}
	wg.Wait()

	roots := make(map[mm.PhysPageNum]bool)
	for hartID := 0; hartID < harts; hartID++ {
		if errs[hartID] != nil {
			t.Fatalf("[hart %d] unexpected error: %v", hartID, errs[hartID])
		}

		h := result[hartID]
		root := h.Space.RootPageNum()
		if roots[root] {
			t.Fatalf("[hart %d] root frame 0x%x is shared with another hart", hartID, root)
		}
		roots[root] = true

		// Each hart has its own identifier space.
		if h.ASID != asid.DefaultASID {
			t.Errorf("[hart %d] expected ASID 0; got %d", hartID, h.ASID)
		}

		entry, lvl, err := h.Space.FindEntry(0x80200)
		if err != nil || lvl != 1 || entry.PPN() != 0x80200 {
			t.Errorf("[hart %d] expected identity 2M leaf for vpn 0x80200; got level %d, ppn 0x%x, err %v", hartID, lvl, entry.PPN(), err)
		}
	}

	if frames.FreeFrames() != 0 {
		t.Fatalf("expected every table frame to be in use; %d left", frames.FreeFrames())
	}

	for _, h := range result {
		h.Release()
	}

	if exp, got := uintptr(2*harts), frames.FreeFrames(); got != exp {
		t.Fatalf("expected %d free frames after release; got %d", exp, got)
	}
}
