//go:build !riscv64

package cpu

import (
	"os"
	"sync/atomic"
)

// hostedHart models the subset of hart state touched by this package.
type hostedHart struct {
	satp  atomic.Uint64
	hgatp atomic.Uint64

	tlbFlushes      atomic.Uint64
	guestTLBFlushes atomic.Uint64
}

var hart hostedHart

// Halt stops the emulation. There is no hart to park so the process exits.
func Halt() {
	os.Exit(1)
}

// ReadSATP returns the value stored in the emulated satp register.
func ReadSATP() uint64 { return hart.satp.Load() }

// WriteSATP stores val into the emulated satp register.
func WriteSATP(val uint64) { hart.satp.Store(val) }

// SwapSATP writes val into the emulated satp register and returns its
// previous value.
func SwapSATP(val uint64) uint64 { return hart.satp.Swap(val) }

// FlushTLBASID records a TLB flush request for the given ASID.
func FlushTLBASID(_ uint16) { hart.tlbFlushes.Add(1) }

// ReadHGATP returns the value stored in the emulated hgatp register.
func ReadHGATP() uint64 { return hart.hgatp.Load() }

// WriteHGATP stores val into the emulated hgatp register.
func WriteHGATP(val uint64) { hart.hgatp.Store(val) }

// SwapHGATP writes val into the emulated hgatp register and returns its
// previous value.
func SwapHGATP(val uint64) uint64 { return hart.hgatp.Swap(val) }

// FlushGuestTLBVMID records a guest TLB flush request for the given VMID.
func FlushGuestTLBVMID(_ uint16) { hart.guestTLBFlushes.Add(1) }

// ConsolePutchar writes ch to the standard output of the hosting process.
func ConsolePutchar(ch byte) {
	_, _ = os.Stdout.Write([]byte{ch})
}
