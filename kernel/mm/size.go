package mm

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)

// FramesSize returns the size in bytes of count frames of the given mode.
func FramesSize[M Mode](m M, count uintptr) Size {
	return Size(count) << m.FrameShift()
}
