package prvhash

import (
	"encoding/binary"
	"fmt"
)

const (
	// ringWords is the tier-1 hash ring length of the cipher, in words.
	ringWords = 16
	// fwLanes is the number of tier-2 "firewalling" lanes.
	fwLanes = 4
	// fwWords is the length of the tier-2 rotating shift register.
	fwWords = 5
	// coupledLane is the only tier-2 lane that ever receives tier-1
	// output. The other three lanes see key-derived entropy only through
	// the shared shift register, so no keystream byte is a simple function
	// of it.
	coupledLane = 3

	// MinKeyLen, MaxKeyLen and MaxIVLen bound NewCipher's inputs, in
	// bytes. Both lengths must be multiples of 8; the IV may be empty.
	MinKeyLen = 16
	MaxKeyLen = 128
	MaxIVLen  = 64
)

// Cipher is the tango642 stream cipher: a keyed PRVHASH lane driving a
// 16-word ring, firewalled behind a bank of four more lanes that produce
// the actual keystream. The same XOR operation serves encryption and
// decryption. Keystream position depends only on cumulative bytes
// processed, never on call boundaries.
//
// A Cipher is a fixed-size value type holding key-derived secrets; call
// Final (or Destroy) when done, ideally via defer.
type Cipher struct {
	seed    uint64
	lcg     uint64
	ring    [ringWords]uint64
	ringPos int

	fseed    [fwLanes]uint64
	flcg     [fwLanes]uint64
	fring    [fwWords]uint64
	fringPos int

	res     [fwLanes]uint64
	resLeft [fwLanes]uint8
	next    int
}

// NewCipher returns a Cipher keyed with key (16 to 128 bytes, multiple of
// 8) and the optional iv (up to 64 bytes, multiple of 8, may be nil). The
// key must be kept secret; the IV only has to be unique per stream under
// one key.
func NewCipher(key, iv []byte) (*Cipher, error) {
	if len(key) < MinKeyLen || len(key) > MaxKeyLen || len(key)%8 != 0 {
		return nil, fmt.Errorf("prvhash: key length %d must be a multiple of 8 in [%d,%d]: %w",
			len(key), MinKeyLen, MaxKeyLen, ErrInvalidLength)
	}
	if len(iv) > MaxIVLen || len(iv)%8 != 0 {
		return nil, fmt.Errorf("prvhash: iv length %d must be a multiple of 8 in [0,%d]: %w",
			len(iv), MaxIVLen, ErrInvalidLength)
	}

	c := new(Cipher)
	c.seed = binary.LittleEndian.Uint64(key)
	for i, k := 0, key[8:]; len(k) > 0; i, k = i+1, k[8:] {
		c.ring[i] = binary.LittleEndian.Uint64(k)
	}

	for i := 0; i < warmupRounds; i++ {
		c.advance()
	}

	for len(iv) > 0 {
		w := binary.LittleEndian.Uint64(iv)
		c.seed ^= w
		c.lcg ^= w
		c.advance()
		iv = iv[8:]
	}

	// Blanking pass: one full trip around the ring so raw key bytes are no
	// longer visible verbatim in ring words.
	for i := 0; i < ringWords; i++ {
		c.advance()
	}

	for i := 0; i < 3*(fwLanes+1); i++ {
		c.fseed[coupledLane] ^= c.advance()
		for k := 0; k < fwLanes; k++ {
			fw := (c.fringPos + k) % fwWords
			Round64(&c.fseed[k], &c.flcg[k], &c.fring[fw])
		}
		c.fringPos++
		if c.fringPos == fwWords {
			c.fringPos = 0
		}
	}
	return c, nil
}

// advance runs the tier-1 lane against the current ring word and steps the
// cursor.
func (c *Cipher) advance() uint64 {
	out := Round64(&c.seed, &c.lcg, &c.ring[c.ringPos])
	c.ringPos++
	if c.ringPos == ringWords {
		c.ringPos = 0
	}
	return out
}

// turn refills all four keystream reservoirs: tier-1 advances once per pair
// of tier-2 lanes with its output coupled into the firewalled lane, then
// each tier-2 lane emits one keystream word and the shift register rotates.
func (c *Cipher) turn() {
	for i := 0; i < fwLanes/2; i++ {
		c.fseed[coupledLane] ^= c.advance()
	}
	for k := 0; k < fwLanes; k++ {
		fw := (c.fringPos + k) % fwWords
		c.res[k] = Round64(&c.fseed[k], &c.flcg[k], &c.fring[fw])
		c.resLeft[k] = 8
	}
	c.fringPos++
	if c.fringPos == fwWords {
		c.fringPos = 0
	}
	c.next = 0
}

// XORKeyStream XORs keystream into src and writes the result to dst,
// implementing crypto/cipher.Stream. dst and src may be the same slice; it
// panics if dst is shorter than src. Keystream bytes are drawn from the
// four lane reservoirs round-robin, low byte first, so output is identical
// on every host.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("prvhash: output smaller than input")
	}
	for i, v := range src {
		ln := c.next
		if c.resLeft[ln] == 0 {
			c.turn()
			ln = 0
		}
		dst[i] = v ^ byte(c.res[ln])
		c.res[ln] >>= 8
		c.resLeft[ln]--
		c.next = ln + 1
		if c.next == fwLanes {
			c.next = 0
		}
	}
}

// Apply encrypts or decrypts buf in place.
func (c *Cipher) Apply(buf []byte) {
	c.XORKeyStream(buf, buf)
}

// Final zero-wipes the cipher state. The Cipher must not be used again
// without a fresh NewCipher.
func (c *Cipher) Final() {
	c.wipe()
}

// Destroy XORs the cipher's own keystream through every word of its state
// before wiping, as defense-in-depth against partial memory disclosure.
// Best-effort only: Go gives no cache-flush or register-spill guarantees.
func (c *Cipher) Destroy() {
	defer c.wipe()
	c.seed ^= c.next64()
	c.lcg ^= c.next64()
	for i := range c.ring {
		c.ring[i] ^= c.next64()
	}
	for i := range c.fseed {
		c.fseed[i] ^= c.next64()
	}
	for i := range c.flcg {
		c.flcg[i] ^= c.next64()
	}
	for i := range c.fring {
		c.fring[i] ^= c.next64()
	}
}

// next64 draws the next 8 keystream bytes as a word.
func (c *Cipher) next64() uint64 {
	var b [8]byte
	c.XORKeyStream(b[:], b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (c *Cipher) wipe() {
	c.seed = 0
	c.lcg = 0
	eraseWords(c.ring[:])
	eraseWords(c.fseed[:])
	eraseWords(c.flcg[:])
	eraseWords(c.fring[:])
	eraseWords(c.res[:])
	c.ringPos = 0
	c.fringPos = 0
	for i := range c.resLeft {
		c.resLeft[i] = 0
	}
	c.next = 0
}
