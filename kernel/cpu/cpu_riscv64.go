package cpu

// Halt stops instruction execution by parking the hart in a wfi loop.
func Halt()

// ReadSATP returns the value stored in the satp register.
func ReadSATP() uint64

// WriteSATP stores val into the satp register. Callers must follow up with
// FlushTLBASID for the ASID encoded in val.
func WriteSATP(val uint64)

// SwapSATP atomically writes val into satp and returns the value read back
// by the same csrrw instruction, i.e. the previous register contents.
func SwapSATP(val uint64) uint64

// FlushTLBASID flushes all TLB entries tagged with the given ASID.
func FlushTLBASID(asid uint16)

// ReadHGATP returns the value stored in the hgatp register.
func ReadHGATP() uint64

// WriteHGATP stores val into the hgatp register.
func WriteHGATP(val uint64)

// SwapHGATP atomically writes val into hgatp and returns its previous value.
func SwapHGATP(val uint64) uint64

// FlushGuestTLBVMID flushes all guest-physical TLB entries tagged with the
// given VMID.
func FlushGuestTLBVMID(vmid uint16)

// ConsolePutchar writes ch to the debug console through the legacy SBI
// console extension.
func ConsolePutchar(ch byte)
