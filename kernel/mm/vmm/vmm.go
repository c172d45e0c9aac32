// Package vmm builds and inspects multi-level page tables for paged address
// spaces. Page tables are accessed through an identity mapping: a table's
// physical address is also the address the hypervisor uses to reach it.
package vmm

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	// ErrInvalidEntry is returned by FindEntry when the walk reaches an
	// entry without the valid bit.
	ErrInvalidEntry = &kernel.Error{Module: "vmm", Message: "page table entry is not valid"}

	// ErrNotLeafInLowestLevel is returned by FindEntry when a level 0 entry
	// points to another table.
	ErrNotLeafInLowestLevel = &kernel.Error{Module: "vmm", Message: "lowest level entry is not a leaf"}

	// ErrRangeOutOfBounds is returned when a mapping request does not fit in
	// the page numbers the paging mode can translate.
	ErrRangeOutOfBounds = &kernel.Error{Module: "vmm", Message: "range exceeds the translatable address space"}

	errAlreadyMapped = &kernel.Error{Module: "vmm", Message: "page is already mapped"}
	errLeafInWalk    = &kernel.Error{Module: "vmm", Message: "leaf entry found above the target level"}
	errNoPermissions = &kernel.Error{Module: "vmm", Message: "leaf mapping requires at least one of R, W or X"}
	errSpaceReleased = &kernel.Error{Module: "vmm", Message: "address space has been released"}
)
