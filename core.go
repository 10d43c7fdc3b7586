package prvhash

// Round constants, per state width: the alternating 10-pattern feeds the
// hash word, the alternating 01-pattern feeds the lcg.
const (
	hashInc64 uint64 = 0xAAAAAAAAAAAAAAAA
	lcgInc64  uint64 = 0x5555555555555555
	hashInc32 uint32 = 0xAAAAAAAA
	lcgInc32  uint32 = 0x55555555
	hashInc16 uint16 = 0xAAAA
	lcgInc16  uint16 = 0x5555
	hashInc8  uint8  = 0xAA
	lcgInc8   uint8  = 0x55
)

// warmupRounds is the number of rounds required to bring a lane out of a
// degenerate (e.g. all-zero) initial state into a uniformly-mixed one.
// Every construction in this package runs this many rounds before trusting
// round output or absorbing entropy.
const warmupRounds = 5

// Round64 runs a single PRVHASH round over a 64-bit state triple: a lane's
// seed and lcg registers plus one hash word of a ring. All three are updated
// in place and the round's output word is returned.
//
// The transform is total: any bit pattern, including all-zero, is a valid
// input. To use a lane as a bare PRNG, run warmup rounds first (see the
// package documentation). To feed entropy into a lane, XOR the same data
// word into both *seed and *lcg immediately before the call; XORing only
// one of the two degrades mixing.
func Round64(seed, lcg, hw *uint64) uint64 {
	s := *seed * (*lcg<<1 + 1)
	rs := s>>32 | s<<32
	*hw += rs + hashInc64
	*lcg += s + lcgInc64
	*seed = s ^ *hw
	return *lcg ^ rs
}

// Round32 is Round64 at 32-bit state width.
func Round32(seed, lcg, hw *uint32) uint32 {
	s := *seed * (*lcg<<1 + 1)
	rs := s>>16 | s<<16
	*hw += rs + hashInc32
	*lcg += s + lcgInc32
	*seed = s ^ *hw
	return *lcg ^ rs
}

// Round16 is Round64 at 16-bit state width.
func Round16(seed, lcg, hw *uint16) uint16 {
	s := *seed * (*lcg<<1 + 1)
	rs := s>>8 | s<<8
	*hw += rs + hashInc16
	*lcg += s + lcgInc16
	*seed = s ^ *hw
	return *lcg ^ rs
}

// Round8 is Round64 at 8-bit state width.
func Round8(seed, lcg, hw *uint8) uint8 {
	s := *seed * (*lcg<<1 + 1)
	rs := s>>4 | s<<4
	*hw += rs + hashInc8
	*lcg += s + lcgInc8
	*seed = s ^ *hw
	return *lcg ^ rs
}

// Round4 is Round64 at 4-bit state width, carried in the low nibble of
// uint8 values. The high nibble of the inputs is ignored and left zero.
func Round4(seed, lcg, hw *uint8) uint8 {
	s := *seed * (*lcg<<1 + 1) & 0xF
	rs := (s>>2 | s<<2) & 0xF
	*hw = (*hw + rs + 0xA) & 0xF
	*lcg = (*lcg + s + 0x5) & 0xF
	*seed = s ^ *hw
	return *lcg ^ rs
}

// Round2 is Round64 at 2-bit state width, carried in the low two bits of
// uint8 values.
func Round2(seed, lcg, hw *uint8) uint8 {
	s := *seed * (*lcg<<1 + 1) & 0x3
	rs := (s>>1 | s<<1) & 0x3
	*hw = (*hw + rs + 0x2) & 0x3
	*lcg = (*lcg + s + 0x1) & 0x3
	*seed = s ^ *hw
	return *lcg ^ rs
}
