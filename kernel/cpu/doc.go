// Package cpu exposes the privileged register and fence operations used by
// the memory subsystem. On riscv64 they are thin assembly wrappers; on every
// other architecture a software register file stands in for the hart so the
// hypervisor core can be built and exercised off-target.
package cpu
