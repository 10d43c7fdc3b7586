package prvhash

import "crypto/subtle"

var zeroBlock [blockLen]byte

// eraseBytes clears b. The write goes through subtle.ConstantTimeCopy so it
// cannot be folded away as a dead store. Best-effort under the Go memory
// model: copies left in registers or on the stack are out of reach.
func eraseBytes(b []byte) {
	for len(b) > 0 {
		n := len(b)
		if n > len(zeroBlock) {
			n = len(zeroBlock)
		}
		subtle.ConstantTimeCopy(1, b[:n], zeroBlock[:n])
		b = b[n:]
	}
}

// eraseWords clears w.
func eraseWords(w []uint64) {
	for i := range w {
		w[i] = 0
	}
}
