//go:build unix

package mm_test

import (
	"testing"

	"zihai/kernel/hal/hostmem"
	"zihai/kernel/mm"
)

func TestInitTable(t *testing.T) {
	region, err := hostmem.Reserve(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = region.Release() }()

	var m mm.Sv39x4
	root := region.Start()

	table := mm.TableAt(m, root, mm.TopLevel(m))
	if len(table) != 2048 {
		t.Fatalf("expected root table with 2048 entries; got %d", len(table))
	}

	for i := range table {
		table[i].SetMapping(mm.PhysPageNum(i), mm.FlagRead)
	}

	mm.InitTable(m, root, mm.TopLevel(m))
	for i, e := range table {
		if e.Valid() {
			t.Fatalf("expected entry %d to be invalid after InitTable", i)
		}
	}

	// A lower level table occupies a single frame.
	leaf := mm.TableAt(m, root+1, mm.LeafLevel)
	if len(leaf) != 512 {
		t.Fatalf("expected leaf table with 512 entries; got %d", len(leaf))
	}
}
