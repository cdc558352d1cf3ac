package format

// AlignUp returns n rounded up to the next multiple of Alignment.
//
// Example:
//
//	AlignUp(1)  = 16
//	AlignUp(16) = 16
//	AlignUp(17) = 32
func AlignUp(n uint64) uint64 {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown returns n rounded down to a multiple of Alignment.
func AlignDown(n uint64) uint64 {
	return n &^ AlignmentMask
}

// AlignPadding returns the number of bytes needed to move addr forward to
// the next Alignment boundary.
func AlignPadding(addr uintptr) uintptr {
	return ((addr + AlignmentMask) &^ AlignmentMask) - addr
}

// IsAligned reports whether n is a multiple of Alignment.
func IsAligned(n uint64) bool {
	return n&AlignmentMask == 0
}
