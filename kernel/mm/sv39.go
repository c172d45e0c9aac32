package mm

const (
	riscvFrameShift   = 12
	riscvPPNBits      = 44
	riscvEntriesShift = 9
	sv39Levels        = 3

	atpModeSv39   = 8
	atpModeSv39x4 = 8
)

// Sv39 is the RISC-V 3-level paging mode for 39-bit supervisor virtual
// addresses.
type Sv39 struct{}

func (Sv39) FrameShift() uint { return riscvFrameShift }
func (Sv39) PPNBits() uint { return riscvPPNBits }
func (Sv39) Levels() Level { return sv39Levels }
func (Sv39) EntriesShift() uint { return riscvEntriesShift }
func (Sv39) RootIndexBits() uint { return riscvEntriesShift }
func (Sv39) ATPMode() uint64 { return atpModeSv39 }
func (Sv39) String() string { return "Sv39" }

// Sv39x4 is the G-stage variant of Sv39 that translates 41-bit
// guest-physical addresses. Its root table is widened by two index bits
// (2048 entries, 16 KiB, 16 KiB aligned); the remaining levels match Sv39.
type Sv39x4 struct{}

func (Sv39x4) FrameShift() uint { return riscvFrameShift }
func (Sv39x4) PPNBits() uint { return riscvPPNBits }
func (Sv39x4) Levels() Level { return sv39Levels }
func (Sv39x4) EntriesShift() uint { return riscvEntriesShift }
func (Sv39x4) RootIndexBits() uint { return riscvEntriesShift + 2 }
func (Sv39x4) ATPMode() uint64 { return atpModeSv39x4 }
func (Sv39x4) String() string { return "Sv39x4" }
