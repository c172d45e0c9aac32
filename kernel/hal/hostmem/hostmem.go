//go:build unix

// Package hostmem reserves anonymous host memory that hosted builds treat as
// physical frames. The frames are identity mapped: a frame's page number
// shifted by the frame size is its address in the host process, so page
// tables placed there can be walked directly.
package hostmem

import (
	"unsafe"

	"zihai/kernel"
	"zihai/kernel/kfmt"
	"zihai/kernel/mm"

	"golang.org/x/sys/unix"
)

var (
	// mmapFn and munmapFn are mocked by tests.
	mmapFn   = unix.Mmap
	munmapFn = unix.Munmap

	errZeroFrames  = &kernel.Error{Module: "hostmem", Message: "requested region has no frames"}
	errBadAlign    = &kernel.Error{Module: "hostmem", Message: "region alignment must be a power of two"}
	errMapFailed   = &kernel.Error{Module: "hostmem", Message: "unable to reserve host memory"}
	errUnmapFailed = &kernel.Error{Module: "hostmem", Message: "unable to release host memory"}
)

// Region is a block of frames backed by host memory.
type Region struct {
	mem   []byte
	start mm.PhysPageNum
	end   mm.PhysPageNum
}

// Reserve maps at least frames frames of zeroed host memory whose first
// frame is aligned to alignFrames frames.
func Reserve(frames, alignFrames uintptr) (*Region, *kernel.Error) {
	if frames == 0 {
		return nil, errZeroFrames
	}
	if alignFrames == 0 || alignFrames&(alignFrames-1) != 0 {
		return nil, errBadAlign
	}

	var m mm.Sv39
	size := (frames + alignFrames - 1) << m.FrameShift()
	mem, err := mmapFn(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		kfmt.Printf("[hostmem] mmap of %d bytes failed: %s\n", size, err.Error())
		return nil, errMapFailed
	}

	base := mm.PPNOf(m, mm.PhysAddr(uintptr(unsafe.Pointer(&mem[0]))))
	start := mm.AlignUp(base, mm.PhysPageNum(alignFrames))

	return &Region{
		mem:   mem,
		start: start,
		end:   start + mm.PhysPageNum(frames),
	}, nil
}

// Start returns the first frame of the region.
func (r *Region) Start() mm.PhysPageNum {
	return r.start
}

// End returns the frame after the last frame of the region.
func (r *Region) End() mm.PhysPageNum {
	return r.end
}

// Release unmaps the region. The frames must not be accessed afterwards.
func (r *Region) Release() *kernel.Error {
	if r.mem == nil {
		return nil
	}

	if err := munmapFn(r.mem); err != nil {
		kfmt.Printf("[hostmem] munmap failed: %s\n", err.Error())
		return errUnmapFailed
	}

	r.mem = nil
	return nil
}
