package graph

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// Hash32 returns a deterministic 32-bit hash of s: FNV-1a over the UTF-8
// bytes followed by the murmur3 fmix32 finalizer. The finalizer spreads
// entropy into the low bits so that small moduli (palette sizes) and short
// ids still distribute well.
func Hash32(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return Mix32(h)
}

// Mix32 is the murmur3 fmix32 finalizer.
func Mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Unit maps a hash to [0, 1).
func Unit(h uint32) float64 {
	return float64(h) / (1 << 32)
}
