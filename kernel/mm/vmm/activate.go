package vmm

import (
	"zihai/kernel/cpu"
	"zihai/kernel/mm"
	"zihai/kernel/mm/asid"
)

const (
	atpModeShift  = 60
	atpIDShift    = 44
	atpPPNMask    = 1<<44 - 1
	hgatpVMIDMask = 0x3fff
)

var (
	// The following functions are mocked by tests.
	writeSATPFn     = cpu.WriteSATP
	readSATPFn      = cpu.ReadSATP
	flushTLBFn      = cpu.FlushTLBASID
	writeHGATPFn    = cpu.WriteHGATP
	readHGATPFn     = cpu.ReadHGATP
	flushGuestTLBFn = cpu.FlushGuestTLBVMID
)

// SATPBits encodes a satp value that selects mode m, the given ASID and the
// root table at root.
func SATPBits[M mm.Mode](m M, id asid.ASID, root mm.PhysPageNum) uint64 {
	return m.ATPMode()<<atpModeShift | uint64(id)<<atpIDShift | uint64(root)&atpPPNMask
}

// HGATPBits encodes an hgatp value for an Sv39x4 G-stage table rooted at
// root and tagged with vmid.
func HGATPBits(vmid asid.VMID, root mm.PhysPageNum) uint64 {
	return mm.Sv39x4{}.ATPMode()<<atpModeShift | uint64(vmid&hgatpVMIDMask)<<atpIDShift | uint64(root)&atpPPNMask
}

// ActivateSupervisor installs space as the calling hart's supervisor address
// space, flushes the stale translations tagged with id and returns the satp
// value read back from the hart.
func ActivateSupervisor(space *PagedAddrSpace[mm.Sv39], id asid.ASID) uint64 {
	writeSATPFn(SATPBits(space.Mode(), id, space.RootPageNum()))
	flushTLBFn(uint16(id))
	return readSATPFn()
}

// ActivateGuest installs space as the calling hart's G-stage table, flushes
// the stale guest translations tagged with vmid and returns the hgatp value
// read back from the hart.
func ActivateGuest(space *PagedAddrSpace[mm.Sv39x4], vmid asid.VMID) uint64 {
	writeHGATPFn(HGATPBits(vmid, space.RootPageNum()))
	flushGuestTLBFn(uint16(vmid))
	return readHGATPFn()
}
