//go:build unix

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"zihai/kernel/hal/hostmem"
	"zihai/kernel/mm"
	"zihai/kernel/mm/pmm"
	"zihai/kernel/mm/vmm"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mapsolve] error: %s\n", err.Error())
	os.Exit(1)
}

type request struct {
	vpn         mm.VirtPageNum
	ppn         mm.PhysPageNum
	count       uintptr
	build       bool
	tableFrames uintptr
}

// solve prints the segments used to map the request and, if requested,
// builds the page tables in host memory to report their footprint.
func solve[M mm.Mode](w io.Writer, m M, req request) error {
	if err := vmm.CheckRange(m, req.vpn, req.ppn, req.count); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: map %d pages from vpn 0x%x to ppn 0x%x\n", m.String(), req.count, req.vpn, req.ppn)

	pairs := vmm.SolveMapPairs(m, req.vpn, req.ppn, req.count)
	for pair, ok := pairs.Next(); ok; pair, ok = pairs.Next() {
		fmt.Fprintf(w, "  level %d: vpn [0x%x, 0x%x) -> ppn 0x%x (%d entries)\n",
			pair.Level,
			pair.Start,
			pair.End,
			req.ppn+mm.PhysPageNum(pair.Start-req.vpn),
			uintptr(pair.End-pair.Start)/mm.LayoutFor(m, pair.Level).AlignInFrames(),
		)
	}

	if !req.build {
		return nil
	}

	region, err := hostmem.Reserve(req.tableFrames, mm.TableFrames(m, mm.TopLevel(m)))
	if err != nil {
		return err
	}
	defer func() { _ = region.Release() }()

	space, err := vmm.NewPagedAddrSpace(m, pmm.NewStackFrameAllocator(region.Start(), region.End()))
	if err != nil {
		return err
	}
	defer space.Release()

	if err = space.AllocateAndMap(req.vpn, req.ppn, req.count, mm.FlagsRWX); err != nil {
		return err
	}

	fmt.Fprintf(w, "page tables: %d frames (%dKb)\n", space.OwnedFrames(), uint64(mm.FramesSize(m, space.OwnedFrames())/mm.Kb))
	return nil
}

func main() {
	var (
		modeName    = flag.String("mode", "sv39", "paging mode (sv39 or sv39x4)")
		vpn         = flag.Uint64("vpn", 0, "first virtual (or guest physical) page number")
		ppn         = flag.Uint64("ppn", 0, "first physical page number")
		count       = flag.Uint64("count", 0, "number of pages to map")
		build       = flag.Bool("build", false, "build the page tables in host memory and report their size")
		tableFrames = flag.Uint64("table-frames", 1024, "frames reserved for page tables when -build is set")
	)
	flag.Parse()

	if *count == 0 {
		exit(errors.New("missing -count"))
	}

	req := request{
		vpn:         mm.VirtPageNum(*vpn),
		ppn:         mm.PhysPageNum(*ppn),
		count:       uintptr(*count),
		build:       *build,
		tableFrames: uintptr(*tableFrames),
	}

	var err error
	switch strings.ToLower(*modeName) {
	case "sv39":
		err = solve(os.Stdout, mm.Sv39{}, req)
	case "sv39x4":
		err = solve(os.Stdout, mm.Sv39x4{}, req)
	default:
		err = fmt.Errorf("unknown paging mode %q", *modeName)
	}

	if err != nil {
		exit(err)
	}
}
