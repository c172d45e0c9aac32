package vmm

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"
)

// AllocateAndMap maps the n pages starting at vpn to the n frames starting
// at ppn using the largest pages the alignment of both ranges allows. Any
// intermediate tables that do not exist yet are allocated on the way.
//
// Mapping over an existing valid entry, or through a leaf that covers part
// of the range, halts the hart. If an allocation fails the entries written
// so far are left in place and the error is returned.
func (s *PagedAddrSpace[M]) AllocateAndMap(vpn mm.VirtPageNum, ppn mm.PhysPageNum, n uintptr, flags mm.EntryFlag) *kernel.Error {
	s.mustBeLive()

	if flags&mm.FlagsRWX == 0 {
		kfmt.Printf("[vmm] refusing to map vpn 0x%x with flags %s\n", vpn, flags)
		panicFn(errNoPermissions)
		return errNoPermissions
	}

	if err := CheckRange(s.mode, vpn, ppn, n); err != nil {
		return err
	}

	pairs := SolveMapPairs(s.mode, vpn, ppn, n)
	for pair, ok := pairs.Next(); ok; pair, ok = pairs.Next() {
		// Solver segments may cross the boundary of the table that holds
		// their entries; each table is filled separately.
		for start := pair.Start; start < pair.End; {
			end := pair.End
			if pair.Level < mm.TopLevel(s.mode) {
				if next := mm.NextPageByLevel(s.mode, start, pair.Level+1); next < end {
					end = next
				}
			}

			if err := s.mapSegment(pair.Level, start, end, vpn, ppn, flags); err != nil {
				return err
			}
			start = end
		}
	}

	return nil
}

// CheckRange returns ErrRangeOutOfBounds unless both the n pages starting at
// vpn and the n frames starting at ppn can be translated by mode m.
func CheckRange[M mm.Mode](m M, vpn mm.VirtPageNum, ppn mm.PhysPageNum, n uintptr) *kernel.Error {
	vpnLimit, ppnLimit := mm.VPNLimit(m), mm.PPNLimit(m)
	if n > uintptr(vpnLimit) || vpn > vpnLimit-mm.VirtPageNum(n) ||
		n > uintptr(ppnLimit) || ppn > ppnLimit-mm.PhysPageNum(n) {
		return ErrRangeOutOfBounds
	}

	return nil
}

// mapSegment writes the level-lvl leaves for [start, end). The range must lie
// inside a single table.
func (s *PagedAddrSpace[M]) mapSegment(lvl mm.Level, start, end mm.VirtPageNum, vpn mm.VirtPageNum, ppn mm.PhysPageNum, flags mm.EntryFlag) *kernel.Error {
	table, err := s.allocGetTable(lvl, start)
	if err != nil {
		return err
	}

	first, last := mm.IndexRange(s.mode, start, end, lvl)
	for idx := first; idx < last; idx++ {
		pageVPN := mm.WithIndex(s.mode, start, lvl, idx)
		if table[idx].Valid() {
			kfmt.Printf("[vmm] vpn 0x%x is already mapped at level %d\n", pageVPN, lvl)
			panicFn(errAlreadyMapped)
			return errAlreadyMapped
		}

		table[idx].SetMapping(ppn+mm.PhysPageNum(pageVPN-vpn), flags)
	}

	return nil
}

// allocGetTable returns the level-lvl table on the path to vpn, creating any
// missing tables above it.
func (s *PagedAddrSpace[M]) allocGetTable(lvl mm.Level, vpn mm.VirtPageNum) ([]mm.PageTableEntry, *kernel.Error) {
	ppn := s.root.PhysPageNum()

	levels := mm.LevelsBefore(s.mode, lvl)
	for walkLvl, ok := levels.Next(); ok; walkLvl, ok = levels.Next() {
		slot := &mm.TableAt(s.mode, ppn, walkLvl)[mm.IndexOf(s.mode, vpn, walkLvl)]

		switch {
		case !slot.Valid():
			box, err := s.newTable(walkLvl - 1)
			if err != nil {
				return nil, err
			}

			slot.SetChild(box.PhysPageNum())
			s.frames = append(s.frames, box)
			ppn = box.PhysPageNum()
		case slot.IsLeaf():
			kfmt.Printf("[vmm] vpn 0x%x is covered by a level %d leaf\n", vpn, walkLvl)
			panicFn(errLeafInWalk)
			return nil, errLeafInWalk
		default:
			ppn = slot.PPN()
		}
	}

	return mm.TableAt(s.mode, ppn, lvl), nil
}
