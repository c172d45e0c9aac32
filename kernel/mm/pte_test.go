package mm

import "testing"

func TestPageTableEntry(t *testing.T) {
	var e PageTableEntry

	if e.Valid() || e.IsLeaf() || e.PPN() != 0 {
		t.Fatal("expected zero entry to be invalid")
	}

	e.SetChild(0x80123)
	if !e.Valid() || e.IsLeaf() {
		t.Fatal("expected child entry to be a valid non-leaf")
	}
	if e.PPN() != 0x80123 || e.Flags() != FlagValid {
		t.Fatalf("unexpected child entry encoding: 0x%x", uint64(e))
	}
	if exp := PageTableEntry(0x80123<<10 | 1); e != exp {
		t.Fatalf("expected raw entry 0x%x; got 0x%x", uint64(exp), uint64(e))
	}

	e.SetMapping(0xfffffffffff, FlagRead|FlagWrite|FlagUser)
	if !e.Valid() || !e.IsLeaf() {
		t.Fatal("expected mapping entry to be a valid leaf")
	}
	if e.PPN() != 0xfffffffffff {
		t.Fatalf("expected ppn 0xfffffffffff; got 0x%x", e.PPN())
	}
	if !e.HasFlags(FlagRead|FlagWrite|FlagUser|FlagValid) || e.HasFlags(FlagExecute) || e.HasAnyFlag(FlagGlobal|FlagDirty) {
		t.Fatalf("unexpected mapping flags %s", e.Flags())
	}

	// Page numbers wider than the entry field are truncated.
	e.SetMapping(1<<44|0x5, FlagExecute)
	if e.PPN() != 0x5 || e.Flags() != FlagExecute|FlagValid {
		t.Fatalf("unexpected truncated entry 0x%x", uint64(e))
	}
}

func TestEntryFlagString(t *testing.T) {
	specs := []struct {
		flags EntryFlag
		exp   string
	}{
		{0, "--------"},
		{FlagValid, "-------V"},
		{FlagValid | FlagsRWX, "----XWRV"},
		{FlagDirty | FlagAccessed | FlagGlobal | FlagUser | FlagValid, "DAGU---V"},
	}

	for specIndex, spec := range specs {
		if got := spec.flags.String(); got != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, spec.exp, got)
		}
	}
}
