package asid

import "zihai/kernel/cpu"

const (
	satpASIDShift  = 44
	satpASIDMask   = 0xffff
	hgatpVMIDShift = 44
	hgatpVMIDMask  = 0x3fff
)

var (
	// The following functions are mocked by tests.
	readSATPFn  = cpu.ReadSATP
	swapSATPFn  = cpu.SwapSATP
	readHGATPFn = cpu.ReadHGATP
	swapHGATPFn = cpu.SwapHGATP
)

// ProbeMaxASID returns the largest ASID supported by the calling hart. The
// ASID field of satp is WARL: setting every bit and reading the value back
// reveals which bits are implemented. The register is restored before
// returning.
func ProbeMaxASID() ASID {
	return ASID(probeField(readSATPFn, swapSATPFn, satpASIDShift, satpASIDMask))
}

// ProbeMaxVMID returns the largest VMID supported by the calling hart using
// the same method as ProbeMaxASID on the VMID field of hgatp.
func ProbeMaxVMID() VMID {
	return VMID(probeField(readHGATPFn, swapHGATPFn, hgatpVMIDShift, hgatpVMIDMask))
}

func probeField(readFn func() uint64, swapFn func(uint64) uint64, shift uint, mask uint64) uint64 {
	old := readFn()
	_ = swapFn(old | mask<<shift)
	readBack := swapFn(old)
	return (readBack >> shift) & mask
}
