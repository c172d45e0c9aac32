package mm

import (
	"math/bits"

	"zihai/kernel"
	"zihai/kernel/kfmt"
)

var errLevelTooLarge = &kernel.Error{Module: "mm", Message: "page level covers more than the address width"}

// Mode describes the shape of a page-based translation scheme. Every method
// returns a constant for a given mode; implementations are zero-sized values
// so the generic helpers below compile to constant-folded code.
type Mode interface {
	// FrameShift returns log2 of the smallest page size.
	FrameShift() uint

	// PPNBits returns the width of the physical page number stored in an
	// entry.
	PPNBits() uint

	// Levels returns the number of page table levels.
	Levels() Level

	// EntriesShift returns log2 of the entries held by a non-root table.
	EntriesShift() uint

	// RootIndexBits returns the number of virtual page number bits consumed
	// by the root table. It equals EntriesShift unless the mode widens its
	// root.
	RootIndexBits() uint

	// ATPMode returns the value written to the MODE field of satp or hgatp.
	ATPMode() uint64

	String() string
}

// Layout describes the size and alignment of a block mapped by a single
// entry at some level.
type Layout struct {
	frames uintptr
}

// AlignInFrames returns the block size (and required alignment) in frames.
func (l Layout) AlignInFrames() uintptr {
	return l.frames
}

// Bytes returns the block size in bytes given the mode's frame shift.
func (l Layout) Bytes(frameShift uint) uintptr {
	return l.frames << frameShift
}

func checkLevel[M Mode](m M, lvl Level) bool {
	if lvl < m.Levels() {
		return true
	}

	kfmt.Printf("[mm] level %d does not exist in %s\n", lvl, m.String())
	panicFn(errLevelOutOfRange)
	return false
}

func levelShift[M Mode](m M, lvl Level) uint {
	return uint(lvl) * m.EntriesShift()
}

// LayoutFor returns the layout of a block mapped at the given level.
func LayoutFor[M Mode](m M, lvl Level) Layout {
	if !checkLevel(m, lvl) {
		return Layout{}
	}

	shift := levelShift(m, lvl)
	if shift+m.FrameShift() >= bits.UintSize {
		panicFn(errLevelTooLarge)
		return Layout{}
	}

	return Layout{frames: 1 << shift}
}

// PageSize returns the size in bytes of a block mapped at the given level.
func PageSize[M Mode](m M, lvl Level) uintptr {
	return LayoutFor(m, lvl).Bytes(m.FrameShift())
}

// TopLevel returns the level of the root table.
func TopLevel[M Mode](m M) Level {
	return m.Levels() - 1
}

// LevelsUntil iterates from the root level down to lvl (inclusive).
func LevelsUntil[M Mode](m M, lvl Level) LevelIter {
	if !checkLevel(m, lvl) {
		return LevelIter{}
	}
	return FallingIncludes(TopLevel(m), lvl)
}

// LevelsBefore iterates from the root level down to lvl (exclusive). These
// are the levels whose tables must be walked to reach a level-lvl entry.
func LevelsBefore[M Mode](m M, lvl Level) LevelIter {
	if !checkLevel(m, lvl) {
		return LevelIter{}
	}
	return FallingExcludes(TopLevel(m), lvl)
}

// LevelsFrom iterates from lvl down to the leaf level (inclusive).
func LevelsFrom[M Mode](m M, lvl Level) LevelIter {
	if !checkLevel(m, lvl) {
		return LevelIter{}
	}
	return FallingIncludes(lvl, LeafLevel)
}

// IndexBits returns the number of page number bits used to index a table of
// the given level.
func IndexBits[M Mode](m M, lvl Level) uint {
	if !checkLevel(m, lvl) {
		return 0
	}

	if lvl == TopLevel(m) {
		return m.RootIndexBits()
	}
	return m.EntriesShift()
}

// TableEntries returns the number of entries in a table of the given level.
func TableEntries[M Mode](m M, lvl Level) uintptr {
	return 1 << IndexBits(m, lvl)
}

// TableFrames returns the number of contiguous frames backing a table of the
// given level. It is also the alignment, in frames, of that table.
func TableFrames[M Mode](m M, lvl Level) uintptr {
	frames := (TableEntries(m, lvl) * EntrySize) >> m.FrameShift()
	if frames == 0 {
		return 1
	}
	return frames
}

// IndexOf returns the index of the entry covering vpn in a table of the
// given level.
func IndexOf[M Mode](m M, vpn VirtPageNum, lvl Level) uintptr {
	mask := uintptr(1)<<IndexBits(m, lvl) - 1
	return uintptr(vpn>>levelShift(m, lvl)) & mask
}

// IndexRange returns the half-open range of entry indices that the pages
// [start, end) occupy in the level-lvl table containing start. When the
// range continues past that table the returned end equals the table's entry
// count.
func IndexRange[M Mode](m M, start, end VirtPageNum, lvl Level) (uintptr, uintptr) {
	first := IndexOf(m, start, lvl)
	if end <= start {
		return first, first
	}

	tableShift := levelShift(m, lvl) + IndexBits(m, lvl)
	if (end-1)>>tableShift != start>>tableShift {
		return first, TableEntries(m, lvl)
	}

	return first, IndexOf(m, end-1, lvl) + 1
}

// WithIndex returns the first page of the block that the entry at idx maps
// in the level-lvl table containing vpn.
func WithIndex[M Mode](m M, vpn VirtPageNum, lvl Level, idx uintptr) VirtPageNum {
	shift := levelShift(m, lvl)
	tableMask := VirtPageNum(1)<<(shift+IndexBits(m, lvl)) - 1
	return vpn&^tableMask | VirtPageNum(idx)<<shift
}

// VPNLimit returns the number of virtual page numbers the mode translates.
// Valid page numbers are in [0, VPNLimit).
func VPNLimit[M Mode](m M) VirtPageNum {
	return VirtPageNum(1) << (uint(TopLevel(m))*m.EntriesShift() + m.RootIndexBits())
}

// PPNLimit returns the number of physical page numbers an entry can encode.
func PPNLimit[M Mode](m M) PhysPageNum {
	return PhysPageNum(1) << m.PPNBits()
}
