// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
)

// A Scalar is an integer modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// which is the prime order of the edwards25519 and ristretto255 groups.
//
// This type works similarly to math/big.Int, and all arguments and
// receivers are allowed to alias.
//
// The zero value is a valid zero element.
type Scalar struct {
	// s is the scalar in canonical little-endian encoding, always reduced
	// below l. The unpacked scalar52 form is only used transiently inside
	// arithmetic, so equality and encoding never depend on it.
	s [32]byte
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

// Add sets s = x + y mod l, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	var a, b scalar52
	a.fromBytes(&x.s)
	b.fromBytes(&y.s)
	a.add(&a, &b)
	a.toBytes(&s.s)
	return s
}

// Subtract sets s = x - y mod l, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	var a, b scalar52
	a.fromBytes(&x.s)
	b.fromBytes(&y.s)
	a.sub(&a, &b)
	a.toBytes(&s.s)
	return s
}

// Negate sets s = -x mod l, and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	var a, zero scalar52
	a.fromBytes(&x.s)
	a.sub(&zero, &a)
	a.toBytes(&s.s)
	return s
}

// Multiply sets s = x * y mod l, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	var a, b scalar52
	a.fromBytes(&x.s)
	b.fromBytes(&y.s)
	a.mul(&a, &b)
	a.toBytes(&s.s)
	return s
}

// MultiplyAdd sets s = x * y + z mod l, and returns s.
func (s *Scalar) MultiplyAdd(x, y, z *Scalar) *Scalar {
	// Make a copy of z in case it aliases s.
	zCopy := new(Scalar).Set(z)
	return s.Multiply(x, y).Add(s, zCopy)
}

// SetUniformBytes sets s = x mod l, where x is a 64-byte little-endian
// integer. If x is not of the right length, SetUniformBytes returns nil
// and an error, and the receiver is unchanged.
//
// If x is uniformly distributed, s will be almost uniformly distributed
// over [0, l), as the reduction folds 512 bits onto 253.
func (s *Scalar) SetUniformBytes(x []byte) (*Scalar, error) {
	if len(x) != 64 {
		return nil, errors.New("curve25519: invalid uniform scalar input length")
	}
	var wide [64]byte
	copy(wide[:], x)
	var t scalar52
	t.fromBytesWide(&wide)
	t.toBytes(&s.s)
	return s, nil
}

// SetCanonicalBytes sets s = x, where x is a 32-byte little-endian
// encoding of s, and returns s. If x is not a canonical encoding of s,
// SetCanonicalBytes returns nil and an error, and the receiver is
// unchanged.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("curve25519: invalid scalar length")
	}
	var b [32]byte
	copy(b[:], x)
	if isReduced(&b) == 0 {
		return nil, errors.New("curve25519: invalid scalar encoding")
	}
	s.s = b
	return s, nil
}

// isReduced returns 1 if the little-endian value b is below l, and 0
// otherwise, in constant time.
func isReduced(b *[32]byte) int {
	var borrow uint64
	for i := 0; i < 4; i++ {
		_, borrow = bits.Sub64(
			binary.LittleEndian.Uint64(b[8*i:]),
			binary.LittleEndian.Uint64(scalarOrder[8*i:]), borrow)
	}
	return int(borrow)
}

// IsCanonicalScalar reports whether x is a canonical scalar encoding, a
// 32-byte little-endian value below l. The check is constant time.
func IsCanonicalScalar(x []byte) bool {
	if len(x) != 32 {
		return false
	}
	var b [32]byte
	copy(b[:], x)
	return isReduced(&b) == 1
}

// SetBytesWithClamping applies the buffer pruning described in RFC 8032,
// Section 5.1.5 (also known as clamping) and sets s to the result. The
// input must be 32 bytes, and it is usually the output of a hash.
//
// The twist of this function is that it is congruent to the clamped value
// modulo l: computing a Montgomery ladder with the raw clamped bytes and
// multiplying an Edwards point by the scalar returned here land on the
// same curve point, because clamping only matters modulo l once the
// cofactor is cleared.
func (s *Scalar) SetBytesWithClamping(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("curve25519: invalid SetBytesWithClamping input length")
	}
	var wide [64]byte
	copy(wide[:], x)
	wide[0] &= 248
	wide[31] &= 63
	wide[31] |= 64
	var t scalar52
	t.fromBytesWide(&wide)
	t.toBytes(&s.s)
	return s, nil
}

// SetRandom sets s to a scalar sampled uniformly at random from rand,
// which would usually be crypto/rand.Reader, and returns s. If reading
// from rand fails, SetRandom returns nil and the error, and the receiver
// is unchanged.
func (s *Scalar) SetRandom(rand io.Reader) (*Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, err
	}
	return s.SetUniformBytes(buf[:])
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var buf [32]byte
	return s.bytes(&buf)
}

func (s *Scalar) bytes(buf *[32]byte) []byte {
	copy(buf[:], s.s[:])
	return buf[:]
}

// Equal returns 1 if s and t are equal, and 0 otherwise.
func (s *Scalar) Equal(t *Scalar) int {
	return subtle.ConstantTimeCompare(s.s[:], t.s[:])
}

// Wipe overwrites s with zeroes. It is a best-effort hint for callers
// holding secret scalars; the compiler and garbage collector may keep
// copies elsewhere.
func (s *Scalar) Wipe() {
	s.s = [32]byte{}
}

// Given k > 0, set s = s**(2*i).
func (s *Scalar) pow2k(k int) {
	for i := 0; i < k; i++ {
		s.Multiply(s, s)
	}
}

// Invert sets s to the inverse of a nonzero scalar t, and returns s.
//
// If t is zero, Invert returns zero.
func (s *Scalar) Invert(t *Scalar) *Scalar {
	// Uses a hardcoded sliding window of width 4.
	var table [8]Scalar
	var tt Scalar
	tt.Multiply(t, t)
	table[0] = *t
	for i := 0; i < 7; i++ {
		table[i+1].Multiply(&table[i], &tt)
	}
	// Now table = [t**1, t**3, t**5, t**7, t**9, t**11, t**13, t**15]
	// so t**k = t[k/2] for odd k

	// To compute the sliding window digits, use the following Sage script:

	// sage: import itertools
	// sage: def sliding_window(w,k):
	// ....:     digits = []
	// ....:     while k > 0:
	// ....:         if k % 2 == 1:
	// ....:             kmod = k % (2**w)
	// ....:             digits.append(kmod)
	// ....:             k = k - kmod
	// ....:         else:
	// ....:             digits.append(0)
	// ....:         k = k // 2
	// ....:     return digits

	// Now we can compute s roughly as follows:

	// sage: s = 1
	// sage: for coeff in reversed(sliding_window(4,l-2)):
	// ....:     s = s*s
	// ....:     if coeff > 0 :
	// ....:         s = s*t**coeff

	// This works on one bit at a time, with many runs of zeros.
	// The digits can be collapsed into [(count, coeff)] as follows:

	// sage: [(len(list(group)),d) for d,group in itertools.groupby(sliding_window(4,l-2))]

	// Entries of the form (k, 0) turn into pow2k(k)
	// Entries of the form (1, coeff) turn into a squaring and then a table lookup.
	// We can fold the squaring into the previous pow2k(k+1).

	*s = table[1/2]
	s.pow2k(127 + 1)
	s.Multiply(s, &table[1/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[9/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[11/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[13/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[15/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[7/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[15/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[5/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[1/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[15/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[15/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[7/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[3/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[11/2])
	s.pow2k(5 + 1)
	s.Multiply(s, &table[11/2])
	s.pow2k(9 + 1)
	s.Multiply(s, &table[9/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[3/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[3/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[3/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[9/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[7/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[3/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[13/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[7/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[9/2])
	s.pow2k(3 + 1)
	s.Multiply(s, &table[15/2])
	s.pow2k(4 + 1)
	s.Multiply(s, &table[11/2])

	return s
}

// signedRadix16 returns the 64 signed radix-16 digits of s, each in
// [-8, 8), such that s = sum(digits[i] * 16^i).
func (s *Scalar) signedRadix16() [64]int8 {
	return signedRadix16(&s.s)
}

func signedRadix16(b *[32]byte) [64]int8 {
	if b[31] > 127 {
		panic("curve25519: scalar has high bit set illegally")
	}

	var digits [64]int8

	// Compute unsigned radix-16 digits:
	for i := 0; i < 32; i++ {
		digits[2*i] = int8(b[i] & 15)
		digits[2*i+1] = int8((b[i] >> 4) & 15)
	}

	// Recenter coefficients:
	for i := 0; i < 63; i++ {
		carry := (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}

// nonAdjacentForm computes a width-w non-adjacent form for this scalar.
//
// w must be between 2 and 8, or nonAdjacentForm will panic.
func (s *Scalar) nonAdjacentForm(w uint) [256]int8 {
	// This implementation is adapted from the one
	// in curve25519-dalek and is documented there:
	// https://docs.rs/curve25519-dalek/4.0.0/src/curve25519_dalek/scalar.rs.html#871
	if s.s[31] > 127 {
		panic("curve25519: scalar has high bit set illegally")
	}
	if w < 2 {
		panic("curve25519: w must be at least 2 by the definition of NAF")
	} else if w > 8 {
		panic("curve25519: NAF digits must fit in int8")
	}

	var naf [256]int8
	var digits [5]uint64

	for i := 0; i < 4; i++ {
		digits[i] = binary.LittleEndian.Uint64(s.s[i*8:])
	}

	width := uint64(1 << w)
	windowMask := uint64(width - 1)

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		indexU64 := pos / 64
		indexBit := pos % 64
		var bitBuf uint64
		if indexBit < 64-w {
			// This window's digits are contained in a single u64
			bitBuf = digits[indexU64] >> indexBit
		} else {
			// Combine the current 64 bits with bits from the next 64
			bitBuf = (digits[indexU64] >> indexBit) | (digits[1+indexU64] << (64 - indexBit))
		}

		// Add carry into the current window
		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			// If the window value is even, preserve the carry and continue.
			// If carry == 0 and window & 1 == 0, then the next carry should
			// be 0. If carry == 1 and window & 1 == 0, then bit_buf & 1 == 1
			// so the next carry should be 1.
			pos += 1
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(window) - int8(width)
		}

		pos += w
	}
	return naf
}
