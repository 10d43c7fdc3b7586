package prvhash

import "hash"

// digest adapts Hasher to the standard hash.Hash interface. Sum finalizes a
// copy of the state, so writing can continue afterwards; the copy is wiped
// by Finalize as usual.
type digest struct {
	h    Hasher
	size int
	seed []byte
}

// New returns a hash.Hash computing an unkeyed PRVHASH digest of size
// bytes. It panics if size is not a multiple of 8 in
// [MinHashLen, MaxHashLen]; use NewKeyed to get an error instead.
func New(size int) hash.Hash {
	d, err := NewKeyed(size, nil)
	if err != nil {
		panic(err)
	}
	return d
}

// NewKeyed returns a hash.Hash computing a PRVHASH digest of size bytes,
// keyed with up to 32 bytes of seed material.
func NewKeyed(size int, seed []byte) (hash.Hash, error) {
	d := &digest{size: size}
	if seed != nil {
		d.seed = append([]byte(nil), seed...)
	}
	if err := d.h.init(size, d.seed); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *digest) Write(p []byte) (int, error) {
	d.h.Update(p)
	return len(p), nil
}

func (d *digest) Sum(b []byte) []byte {
	st := d.h
	var out [MaxHashLen]byte
	st.Finalize(out[:d.size])
	return append(b, out[:d.size]...)
}

func (d *digest) Reset() {
	// Lengths were validated at construction; init cannot fail here.
	_ = d.h.init(d.size, d.seed)
}

func (d *digest) Size() int { return d.size }

// BlockSize reports the staging block length, one word per fused lane.
func (d *digest) BlockSize() int { return blockLen }
