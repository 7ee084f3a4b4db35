package scoring

import "sort"

// DefaultPalette is the avatar set handed out to session participants.
var DefaultPalette = Palette{"🤠", "🧙‍♂️", "🎅", "🤖", "🕵️"}

// Palette is the fixed, ordered set of display identities.
type Palette []string

// HashCode is the 31-multiplier rolling hash over the code points of s with
// 32-bit two's-complement wraparound. Changing it reshuffles every session's
// avatars.
func HashCode(s string) int32 {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	return h
}

// AssignIdentities rotates the palette by the hash of seed and hands entries
// out to keys in lexicographic order. Duplicate keys collapse; more keys than
// palette entries wrap around.
func AssignIdentities(seed string, keys []string, palette Palette) map[string]string {
	out := make(map[string]string, len(keys))
	if len(palette) == 0 {
		return out
	}

	sorted := uniqueSorted(keys)
	// int64 so |MinInt32| does not overflow.
	offset := int64(HashCode(seed))
	if offset < 0 {
		offset = -offset
	}
	size := int64(len(palette))
	for i, k := range sorted {
		out[k] = palette[(offset+int64(i))%size]
	}
	return out
}

// SortedKeys returns the keys of m in the enumeration order used for
// identity assignment.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueSorted(keys []string) []string {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return SortedKeys(set)
}
