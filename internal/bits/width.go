package bits

import gobits "math/bits"

// Needed returns the number of bits required to represent any value in
// [0, max], with a minimum of 1 bit (so that a field with a single possible
// value still reserves room to encode it). This mirrors bits_needed() in
// original_source/src/util.c.
func Needed(max uint64) uint32 {
	if max == 0 {
		return 1
	}
	return uint32(gobits.Len64(max))
}
