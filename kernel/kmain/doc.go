// Package kmain wires the memory management subsystems together when a hart
// boots.
package kmain
