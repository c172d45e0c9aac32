// Package asid allocates address space identifiers. ASIDs tag supervisor
// (VS/HS-stage) translations through satp and VMIDs tag G-stage translations
// through hgatp. Each hart owns its own allocators; identifiers are never
// shared between harts so no locking is required.
package asid

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"

	"golang.org/x/exp/constraints"
)

// ASID identifies a supervisor address space in satp.
type ASID uint16

// VMID identifies a guest-physical address space in hgatp.
type VMID uint16

// DefaultASID is used for mappings that belong to the hypervisor itself.
const DefaultASID = ASID(0)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	// ErrExhausted is returned when every identifier up to the maximum has
	// been handed out and none has been freed.
	ErrExhausted = &kernel.Error{Module: "asid_alloc", Message: "no identifiers left"}

	errIDAboveMax     = &kernel.Error{Module: "asid_alloc", Message: "identifier exceeds the hart maximum"}
	errIDNotAllocated = &kernel.Error{Module: "asid_alloc", Message: "identifier was never allocated"}
	errIDAlreadyFreed = &kernel.Error{Module: "asid_alloc", Message: "identifier is already free"}
)

// StackAllocator hands out identifiers in [0, max]. It behaves like the
// frame allocator: a watermark grows towards max and freed identifiers are
// reused first, most recently freed first.
type StackAllocator[T constraints.Unsigned] struct {
	current   T
	max       T
	exhausted bool
	recycled  []T
}

// NewASIDAllocator returns an allocator for ASIDs 0 to maxID (inclusive).
func NewASIDAllocator(maxID ASID) *StackAllocator[ASID] {
	return &StackAllocator[ASID]{max: maxID}
}

// NewVMIDAllocator returns an allocator for VMIDs 0 to maxID (inclusive).
func NewVMIDAllocator(maxID VMID) *StackAllocator[VMID] {
	return &StackAllocator[VMID]{max: maxID}
}

// Alloc reserves an identifier.
func (a *StackAllocator[T]) Alloc() (T, *kernel.Error) {
	if n := len(a.recycled); n != 0 {
		id := a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
		return id, nil
	}

	if a.exhausted {
		return 0, ErrExhausted
	}

	// The watermark cannot move past max without overflowing T, so max is
	// handed out by flagging the allocator as exhausted instead.
	if a.current == a.max {
		a.exhausted = true
		return a.max, nil
	}

	id := a.current
	a.current++
	return id, nil
}

// Free returns an identifier obtained from Alloc. Freeing an identifier that
// is not allocated halts the hart.
func (a *StackAllocator[T]) Free(id T) {
	switch {
	case id > a.max:
		kfmt.Printf("[asid_alloc] id %d exceeds max %d\n", uint64(id), uint64(a.max))
		panicFn(errIDAboveMax)
		return
	case !a.exhausted && id >= a.current:
		kfmt.Printf("[asid_alloc] id %d has not been allocated\n", uint64(id))
		panicFn(errIDNotAllocated)
		return
	}

	for _, free := range a.recycled {
		if free == id {
			kfmt.Printf("[asid_alloc] id %d is freed twice\n", uint64(id))
			panicFn(errIDAlreadyFreed)
			return
		}
	}

	a.recycled = append(a.recycled, id)
}

// Max returns the largest identifier this allocator hands out.
func (a *StackAllocator[T]) Max() T {
	return a.max
}

// Available returns the number of identifiers that can still be allocated.
func (a *StackAllocator[T]) Available() uint64 {
	left := uint64(len(a.recycled))
	if !a.exhausted {
		left += uint64(a.max-a.current) + 1
	}
	return left
}
