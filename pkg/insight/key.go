package insight

import (
	"fmt"
	"unicode/utf16"
)

// DeriveKey reduces the keyed fields of s to an 8-character hex token.
//
// Snapshots that differ only in unkeyed fields share a key on purpose.
// The hash is a 31-multiplier rolling hash over UTF-16 code units in a
// wrapping int32, so distinct snapshots may collide: treat equal keys as a
// hint to reuse a cached insight, never as proof the snapshots are equal.
func DeriveKey(s Snapshot) string {
	return rollingHash(s.fingerprint())
}

func rollingHash(v string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(v)) {
		h = h*31 + int32(unit)
	}
	// Widen before negating so math.MinInt32 stays positive.
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%08x", n)
}
