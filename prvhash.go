// Package prvhash implements the PRVHASH family of pseudo-random
// state-transition primitives: the width-generic round function, the
// streamed prvhash64s hash with keyed seeding, a minimal 64-bit fixed-output
// hash for hash-table use, and the tango642 stream cipher.
//
// All constructions share one mixing primitive (Round64 and its narrower
// siblings) and operate purely on fixed-size value types: no allocation
// happens on any hot path, contexts can live on the stack, and output byte
// order is the same on every host (explicit little-endian coding, no
// pointer reinterpretation).
//
// Contexts are not safe for concurrent use; give each goroutine its own.
// Hash and cipher contexts derived from secret material are zero-wiped on
// finalization.
package prvhash

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidLength is returned (wrapped) by constructors when a hash, seed,
// key or IV length is outside its documented range or not a multiple of the
// required step. It is the only error this package produces: all other
// operations are total over validated state.
var ErrInvalidLength = errors.New("prvhash: invalid length")

// sum64Seed is the default initial seed of Sum64.
const sum64Seed uint64 = 12905183526369792234

// Sum64 computes a 64-bit hash of msg. The seed selects one of 2^64 hash
// function variants; zero is fine. Suited to hash tables and checksums; for
// longer or keyed digests use Hasher or Oneshot.
func Sum64(msg []byte, seed uint64) uint64 {
	s := sum64Seed ^ seed
	var lcg, hw uint64

	fb := uint64(1)
	if len(msg) > 0 {
		fb <<= msg[len(msg)-1] >> 7
	}

	for len(msg) >= 8 {
		w := binary.LittleEndian.Uint64(msg)
		s ^= w
		lcg ^= w
		Round64(&s, &lcg, &hw)
		msg = msg[8:]
	}

	// Trailing word: remaining bytes, terminated by the final-byte marker.
	w := fb << (uint(len(msg)) * 8)
	for i, b := range msg {
		w |= uint64(b) << (8 * uint(i))
	}
	s ^= w
	lcg ^= w
	Round64(&s, &lcg, &hw)

	Round64(&s, &lcg, &hw)
	return Round64(&s, &lcg, &hw)
}

// leWord reads up to 8 bytes as a little-endian word, zero-padding short
// input.
func leWord(b []byte) uint64 {
	if len(b) >= 8 {
		return binary.LittleEndian.Uint64(b)
	}
	var w uint64
	for i := len(b) - 1; i >= 0; i-- {
		w = w<<8 | uint64(b[i])
	}
	return w
}
