package mm

import "golang.org/x/exp/constraints"

// AlignUp rounds v up to the next multiple of align. Align must be non-zero.
func AlignUp[T constraints.Unsigned](v, align T) T {
	return align * ((v + align - 1) / align)
}

// AlignDown rounds v down to the previous multiple of align. Align must be
// non-zero.
func AlignDown[T constraints.Unsigned](v, align T) T {
	return align * (v / align)
}

// IsAligned returns true if v is a multiple of align.
func IsAligned[T constraints.Unsigned](v, align T) bool {
	return v%align == 0
}
