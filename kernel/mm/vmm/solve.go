package vmm

import "zihai/kernel/mm"

// MapPair is a run of pages [Start, End) mapped with entries of Level.
type MapPair struct {
	Level mm.Level
	Start mm.VirtPageNum
	End   mm.VirtPageNum
}

// MapPairs iterates over the segments computed by SolveMapPairs.
type MapPairs struct {
	pairs []MapPair
	next  int
}

// SolveMapPairs splits the mapping of n pages from vpn to ppn into runs that
// use the largest page sizes possible. A level qualifies when vpn and ppn
// are congruent modulo its block size and the request spans at least one
// block; the highest qualifying level maps the aligned middle of the range
// and every lower level covers what remains at either end.
//
// Runs are produced level by level, highest first; within a level the run
// at the start of the range precedes the run at its end.
func SolveMapPairs[M mm.Mode](m M, vpn mm.VirtPageNum, ppn mm.PhysPageNum, n uintptr) *MapPairs {
	pairs := &MapPairs{}

	candidates := mm.LevelsUntil(m, mm.LeafLevel)
	for top, ok := candidates.Next(); ok; top, ok = candidates.Next() {
		align := mm.LayoutFor(m, top).AlignInFrames()
		if (uintptr(vpn)-uintptr(ppn))%align != 0 || n < align {
			continue
		}

		var prevStart, prevEnd mm.VirtPageNum
		levels := mm.LevelsFrom(m, top)
		for lvl, ok := levels.Next(); ok; lvl, ok = levels.Next() {
			blockFrames := mm.VirtPageNum(mm.LayoutFor(m, lvl).AlignInFrames())
			alignedStart := mm.AlignUp(vpn, blockFrames)
			alignedEnd := mm.AlignDown(vpn+mm.VirtPageNum(n), blockFrames)

			if lvl == top {
				if alignedStart != alignedEnd {
					pairs.push(lvl, alignedStart, alignedEnd)
				}
			} else {
				if alignedStart != prevStart {
					pairs.push(lvl, alignedStart, prevStart)
				}
				if prevEnd != alignedEnd {
					pairs.push(lvl, prevEnd, alignedEnd)
				}
			}

			prevStart, prevEnd = alignedStart, alignedEnd
		}
		break
	}

	return pairs
}

func (p *MapPairs) push(lvl mm.Level, start, end mm.VirtPageNum) {
	p.pairs = append(p.pairs, MapPair{Level: lvl, Start: start, End: end})
}

// Next returns the next segment. The second return value is false once all
// segments have been consumed.
func (p *MapPairs) Next() (MapPair, bool) {
	if p.next == len(p.pairs) {
		return MapPair{}, false
	}

	p.next++
	return p.pairs[p.next-1], true
}

// Len returns the number of segments that have not been consumed yet.
func (p *MapPairs) Len() int {
	return len(p.pairs) - p.next
}
