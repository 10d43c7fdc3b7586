package prvhash

import (
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ cipher.Stream = (*Cipher)(nil)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i*7 + 3)
	}
	return key
}

func testIV() []byte {
	iv := make([]byte, 16)
	for i := range iv {
		iv[i] = byte(i)
	}
	return iv
}

func testPlaintext() []byte {
	p := make([]byte, 1000)
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

func TestCipherInvolution(t *testing.T) {
	p := testPlaintext()

	enc, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	ct := append([]byte(nil), p...)
	enc.Apply(ct)
	assert.NotEqual(t, p, ct, "ciphertext equals plaintext")

	dec, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	dec.Apply(ct)
	assert.Equal(t, p, ct, "decryption did not recover the plaintext")
}

func TestCipherChunkingInvariance(t *testing.T) {
	p := testPlaintext()

	whole, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	want := append([]byte(nil), p...)
	whole.Apply(want)

	chunked, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	got := append([]byte(nil), p...)
	off := 0
	for _, n := range []int{1, 31, 32, 33, 903} {
		chunked.Apply(got[off : off+n])
		off += n
	}
	require.Equal(t, len(p), off)
	assert.Equal(t, want, got)
}

func TestCipherKeystreamDivergence(t *testing.T) {
	iv2 := testIV()
	iv2[0] ^= 1

	a, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	b, err := NewCipher(testKey(), iv2)
	require.NoError(t, err)

	ksA := make([]byte, 64)
	ksB := make([]byte, 64)
	a.Apply(ksA)
	b.Apply(ksB)
	assert.NotEqual(t, ksA, ksB, "different ivs must give different keystreams")

	// No IV at all is valid and distinct too.
	c, err := NewCipher(testKey(), nil)
	require.NoError(t, err)
	ksC := make([]byte, 64)
	c.Apply(ksC)
	assert.NotEqual(t, ksA, ksC)
}

func TestCipherXORKeyStream(t *testing.T) {
	p := testPlaintext()

	viaApply, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	a := append([]byte(nil), p...)
	viaApply.Apply(a)

	viaStream, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	b := make([]byte, len(p))
	viaStream.XORKeyStream(b, p)
	assert.Equal(t, a, b)

	assert.Panics(t, func() {
		viaStream.XORKeyStream(make([]byte, 1), make([]byte, 2))
	})
}

func TestCipherLengthValidation(t *testing.T) {
	for _, n := range []int{0, 8, 15, 20, 136} {
		_, err := NewCipher(make([]byte, n), nil)
		assert.ErrorIs(t, err, ErrInvalidLength, "key length %d", n)
	}
	for _, n := range []int{4, 12, 72} {
		_, err := NewCipher(testKey(), make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidLength, "iv length %d", n)
	}
	for _, n := range []int{MinKeyLen, 32, MaxKeyLen} {
		_, err := NewCipher(make([]byte, n), make([]byte, MaxIVLen))
		assert.NoError(t, err, "key length %d", n)
	}
}

func TestCipherZeroizedAfterFinal(t *testing.T) {
	c, err := NewCipher(testKey(), testIV())
	require.NoError(t, err)
	c.Apply(make([]byte, 100))
	c.Final()
	assert.Equal(t, Cipher{}, *c, "context must be all-zero after Final")

	c, err = NewCipher(testKey(), testIV())
	require.NoError(t, err)
	c.Apply(make([]byte, 100))
	c.Destroy()
	assert.Equal(t, Cipher{}, *c, "context must be all-zero after Destroy")
}

func FuzzCipherRoundTrip(f *testing.F) {
	f.Add([]byte(nil), uint8(1))
	f.Add([]byte("attack at dawn"), uint8(13))
	f.Add(make([]byte, 256), uint8(32))

	f.Fuzz(func(t *testing.T, data []byte, step uint8) {
		key := testKey()
		iv := testIV()

		enc, err := NewCipher(key, iv)
		if err != nil {
			t.Fatal(err)
		}
		ct := append([]byte(nil), data...)
		n := int(step%61) + 1
		for off := 0; off < len(ct); {
			c := n
			if off+c > len(ct) {
				c = len(ct) - off
			}
			enc.Apply(ct[off : off+c])
			off += c
		}

		dec, err := NewCipher(key, iv)
		if err != nil {
			t.Fatal(err)
		}
		dec.Apply(ct)
		if string(ct) != string(data) {
			t.Fatalf("round trip failed for len=%d step=%d", len(data), n)
		}
	})
}
