package attrs

import (
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

// ============================================================================
// Bitmap4 Helpers
// ============================================================================
//
// Per RFC 7530 Section 3.3.7, bitmap4 is a variable-length array of uint32
// words. Attribute bit N lives in word N/32 at position N%32.

// IsBitSet reports whether the given attribute bit is set in the bitmap.
// Bits beyond the bitmap length are treated as unset.
func IsBitSet(bitmap types.Bitmap4, bit uint32) bool {
	word := bit / 32
	if int(word) >= len(bitmap) {
		return false
	}
	return bitmap[word]&(1<<(bit%32)) != 0
}

// SetBit sets the given attribute bit, growing the bitmap as needed.
func SetBit(bitmap *types.Bitmap4, bit uint32) {
	word := int(bit / 32)
	for len(*bitmap) <= word {
		*bitmap = append(*bitmap, 0)
	}
	(*bitmap)[word] |= 1 << (bit % 32)
}

// ClearBit clears the given attribute bit. Trailing zero words are trimmed
// so that a cleared bitmap encodes minimally.
func ClearBit(bitmap *types.Bitmap4, bit uint32) {
	word := int(bit / 32)
	if word >= len(*bitmap) {
		return
	}
	(*bitmap)[word] &^= 1 << (bit % 32)
	for len(*bitmap) > 0 && (*bitmap)[len(*bitmap)-1] == 0 {
		*bitmap = (*bitmap)[:len(*bitmap)-1]
	}
}

// Intersect returns the bits present in both request and supported.
// The result has no trailing zero words.
func Intersect(request, supported types.Bitmap4) types.Bitmap4 {
	n := min(len(request), len(supported))
	result := make(types.Bitmap4, n)
	for i := range n {
		result[i] = request[i] & supported[i]
	}
	for len(result) > 0 && result[len(result)-1] == 0 {
		result = result[:len(result)-1]
	}
	return result
}

// Request builds a bitmap with each of the given attribute bits set.
func Request(bits ...uint32) types.Bitmap4 {
	var bitmap types.Bitmap4
	for _, bit := range bits {
		SetBit(&bitmap, bit)
	}
	return bitmap
}

// Bits lists the set bits in ascending order, which is also the order the
// attribute values appear in fattr4.attr_vals.
func Bits(bitmap types.Bitmap4) []uint32 {
	var bits []uint32
	for word, v := range bitmap {
		for i := uint32(0); i < 32; i++ {
			if v&(1<<i) != 0 {
				bits = append(bits, uint32(word)*32+i)
			}
		}
	}
	return bits
}
