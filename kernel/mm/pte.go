package mm

import (
	"strings"
	"unsafe"

	"zihai/kernel"
)

// EntryFlag describes a flag bit of a page table entry.
type EntryFlag uint8

const (
	// FlagValid marks the entry as in use.
	FlagValid EntryFlag = 1 << iota
	FlagRead
	FlagWrite
	FlagExecute
	// FlagUser makes the page accessible from U-mode (or, for G-stage
	// tables, required for any guest access).
	FlagUser
	FlagGlobal
	FlagAccessed
	FlagDirty

	// FlagsRWX selects the permission bits. An entry with any of them set
	// is a leaf.
	FlagsRWX = FlagRead | FlagWrite | FlagExecute
)

const (
	// EntrySize is the size of a page table entry in bytes.
	EntrySize = uintptr(unsafe.Sizeof(PageTableEntry(0)))

	entryFlagsMask = PageTableEntry(0xff)
	entryPPNShift  = 10
	entryPPNMask   = PageTableEntry(1)<<riscvPPNBits - 1
)

// String renders the flags in the order D A G U X W R V, using '-' for
// cleared bits.
func (f EntryFlag) String() string {
	const names = "DAGUXWRV"
	var sb strings.Builder
	for i := 0; i < len(names); i++ {
		if f&(1<<(len(names)-1-i)) != 0 {
			sb.WriteByte(names[i])
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// PageTableEntry is a RISC-V page table entry. Bits 0-7 hold the flags and
// bits 10-53 the physical page number of either the mapped page or the next
// level table.
type PageTableEntry uint64

// HasFlags returns true if all of the supplied flags are set.
func (e PageTableEntry) HasFlags(flags EntryFlag) bool {
	return EntryFlag(e&entryFlagsMask)&flags == flags
}

// HasAnyFlag returns true if at least one of the supplied flags is set.
func (e PageTableEntry) HasAnyFlag(flags EntryFlag) bool {
	return EntryFlag(e&entryFlagsMask)&flags != 0
}

// Flags returns the flag bits of the entry.
func (e PageTableEntry) Flags() EntryFlag {
	return EntryFlag(e & entryFlagsMask)
}

// Valid returns true if the V bit is set.
func (e PageTableEntry) Valid() bool {
	return e.HasFlags(FlagValid)
}

// IsLeaf returns true if the entry maps a page instead of pointing to the
// next level table.
func (e PageTableEntry) IsLeaf() bool {
	return e.HasAnyFlag(FlagsRWX)
}

// PPN returns the physical page number stored in the entry.
func (e PageTableEntry) PPN() PhysPageNum {
	return PhysPageNum((e >> entryPPNShift) & entryPPNMask)
}

// SetPPNFlags overwrites the entry with the supplied page number and flags.
func (e *PageTableEntry) SetPPNFlags(ppn PhysPageNum, flags EntryFlag) {
	*e = (PageTableEntry(ppn)&entryPPNMask)<<entryPPNShift | PageTableEntry(flags)
}

// SetChild points the entry to the next level table at ppn.
func (e *PageTableEntry) SetChild(ppn PhysPageNum) {
	e.SetPPNFlags(ppn, FlagValid)
}

// SetMapping turns the entry into a valid leaf for ppn.
func (e *PageTableEntry) SetMapping(ppn PhysPageNum, flags EntryFlag) {
	e.SetPPNFlags(ppn, flags|FlagValid)
}

// ptePtrFn returns a pointer to the table stored at the supplied address.
// Tables live in identity mapped memory. This function is mocked by tests.
var ptePtrFn = func(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr)
}

// TableAt returns the entries of the level-lvl table stored at ppn.
func TableAt[M Mode](m M, ppn PhysPageNum, lvl Level) []PageTableEntry {
	addr := uintptr(PhysAddrOf(m, ppn))
	return unsafe.Slice((*PageTableEntry)(ptePtrFn(addr)), TableEntries(m, lvl))
}

// InitTable clears the level-lvl table stored at ppn so that every entry is
// invalid.
func InitTable[M Mode](m M, ppn PhysPageNum, lvl Level) {
	kernel.Memset(uintptr(PhysAddrOf(m, ppn)), 0, TableEntries(m, lvl)*EntrySize)
}
