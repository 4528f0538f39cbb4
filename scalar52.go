// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"encoding/binary"
	"math/bits"
)

// scalar52 is the unpacked representation used for arithmetic modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// with five 52-bit limbs in little-endian order. Multiplication works in
// the Montgomery domain with R = 2^260; fromBytes and toBytes move values
// in and out of the plain domain.
type scalar52 [5]uint64

const maskLow52Bits = (1 << 52) - 1

// scL is l itself.
var scL = scalar52{0x0002631a5cf5d3ed, 0x000dea2f79cd6581, 0x000000000014def9, 0x0000000000000000, 0x0000100000000000}

// scR is R = 2^260 mod l.
var scR = scalar52{0x000f48bd6721e6ed, 0x0003bab5ac67e45a, 0x000fffffeb35e51b, 0x000fffffffffffff, 0x00000fffffffffff}

// scRR is R^2 = 2^520 mod l, the Montgomery form of R.
var scRR = scalar52{0x0009d265e952d13b, 0x000d63c715bea69f, 0x0005be65cb687604, 0x0003dceec73d217f, 0x000009411b7c309a}

// scLFactor is -l^(-1) mod 2^52.
const scLFactor = 0x51da312547e1b

// add sets s = a + b mod l, and returns s. a and b must be below l.
func (s *scalar52) add(a, b *scalar52) *scalar52 {
	var sum scalar52
	carry := uint64(0)
	for i := 0; i < 5; i++ {
		carry = a[i] + b[i] + (carry >> 52)
		sum[i] = carry & maskLow52Bits
	}
	// The sum is below 2*l, so one conditional subtraction settles it.
	return s.sub(&sum, &scL)
}

// sub sets s = a - b mod l, and returns s. a and b must be below l.
func (s *scalar52) sub(a, b *scalar52) *scalar52 {
	// Subtract with a borrow chain, then add l back in if the result
	// went negative, keyed on the final borrow bit.
	borrow := uint64(0)
	for i := 0; i < 5; i++ {
		borrow = a[i] - (b[i] + (borrow >> 63))
		s[i] = borrow & maskLow52Bits
	}

	mask := uint64(0) - (borrow >> 63)
	carry := uint64(0)
	for i := 0; i < 5; i++ {
		carry = (carry >> 52) + s[i] + (scL[i] & mask)
		s[i] = carry & maskLow52Bits
	}
	return s
}

// uint128 holds a 128-bit accumulator as two 64-bit halves.
type uint128 struct {
	lo, hi uint64
}

func mul64(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{lo, hi}
}

func addMul64(v uint128, a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	lo, c := bits.Add64(lo, v.lo, 0)
	hi, _ = bits.Add64(hi, v.hi, c)
	return uint128{lo, hi}
}

func add128(v, u uint128) uint128 {
	lo, c := bits.Add64(v.lo, u.lo, 0)
	hi, _ := bits.Add64(v.hi, u.hi, c)
	return uint128{lo, hi}
}

// shr52 returns v >> 52.
func shr52(v uint128) uint128 {
	return uint128{v.hi<<12 | v.lo>>52, v.hi >> 52}
}

// mulInternal computes the 520-bit product a*b as nine 128-bit column
// sums in radix 2^52.
func mulInternal(a, b *scalar52) [9]uint128 {
	var z [9]uint128
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			z[i+j] = addMul64(z[i+j], a[i], b[j])
		}
	}
	return z
}

// montgomeryReduce computes (limbs / R) mod l, interpreting limbs as a
// 520-bit product in radix 2^52 columns. The result is below l.
func montgomeryReduce(limbs *[9]uint128) scalar52 {
	// part1 folds in the multiple of l that clears the bottom 52 bits.
	part1 := func(sum uint128) (uint128, uint64) {
		p := (sum.lo * scLFactor) & maskLow52Bits
		return shr52(addMul64(sum, p, scL[0])), p
	}
	part2 := func(sum uint128) (uint128, uint64) {
		w := sum.lo & maskLow52Bits
		return shr52(sum), w
	}

	// l[3] is zero, so the terms involving it are dropped.
	l := &scL

	c, n0 := part1(limbs[0])
	c, n1 := part1(add128(c, addMul64(limbs[1], n0, l[1])))
	c, n2 := part1(add128(c, addMul64(addMul64(limbs[2], n0, l[2]), n1, l[1])))
	c, n3 := part1(add128(c, addMul64(addMul64(limbs[3], n1, l[2]), n2, l[1])))
	c, n4 := part1(add128(c, addMul64(addMul64(addMul64(limbs[4], n0, l[4]), n2, l[2]), n3, l[1])))

	// The low 260 bits are now multiples of R; the rest is the result.
	c, r0 := part2(add128(c, addMul64(addMul64(addMul64(limbs[5], n1, l[4]), n3, l[2]), n4, l[1])))
	c, r1 := part2(add128(c, addMul64(addMul64(limbs[6], n2, l[4]), n4, l[2])))
	c, r2 := part2(add128(c, addMul64(limbs[7], n3, l[4])))
	c, r3 := part2(add128(c, addMul64(limbs[8], n4, l[4])))
	r4 := c.lo

	// The result is below 2*l.
	var s scalar52
	return *s.sub(&scalar52{r0, r1, r2, r3, r4}, l)
}

// montgomeryMul sets s = a * b / R mod l, and returns s.
func (s *scalar52) montgomeryMul(a, b *scalar52) *scalar52 {
	limbs := mulInternal(a, b)
	*s = montgomeryReduce(&limbs)
	return s
}

// mul sets s = a * b mod l in the plain domain, and returns s.
func (s *scalar52) mul(a, b *scalar52) *scalar52 {
	s.montgomeryMul(a, b)
	// The first reduction divided by R, multiply it back in.
	return s.montgomeryMul(s, &scRR)
}

// fromBytes unpacks a 32-byte little-endian value. The value is taken
// modulo 2^260, not modulo l.
func (s *scalar52) fromBytes(x *[32]byte) *scalar52 {
	var words [4]uint64
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(x[8*i:])
	}
	s[0] = words[0] & maskLow52Bits
	s[1] = (words[0]>>52 | words[1]<<12) & maskLow52Bits
	s[2] = (words[1]>>40 | words[2]<<24) & maskLow52Bits
	s[3] = (words[2]>>28 | words[3]<<36) & maskLow52Bits
	s[4] = (words[3] >> 16) & maskLow52Bits
	return s
}

// fromBytesWide sets s to the 64-byte little-endian value x reduced
// modulo l.
func (s *scalar52) fromBytesWide(x *[64]byte) *scalar52 {
	var words [8]uint64
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(x[8*i:])
	}

	// Split the 512-bit value as x = lo + hi * 2^260.
	var lo, hi scalar52
	lo[0] = words[0] & maskLow52Bits
	lo[1] = (words[0]>>52 | words[1]<<12) & maskLow52Bits
	lo[2] = (words[1]>>40 | words[2]<<24) & maskLow52Bits
	lo[3] = (words[2]>>28 | words[3]<<36) & maskLow52Bits
	lo[4] = (words[3]>>16 | words[4]<<48) & maskLow52Bits
	hi[0] = (words[4] >> 4) & maskLow52Bits
	hi[1] = (words[4]>>56 | words[5]<<8) & maskLow52Bits
	hi[2] = (words[5]>>44 | words[6]<<20) & maskLow52Bits
	hi[3] = (words[6]>>32 | words[7]<<32) & maskLow52Bits
	hi[4] = words[7] >> 20

	lo.montgomeryMul(&lo, &scR)  // lo * R / R = lo mod l
	hi.montgomeryMul(&hi, &scRR) // hi * R^2 / R = hi * 2^260 mod l

	return s.add(&lo, &hi)
}

// toBytes packs s, which must be below l, into 32 little-endian bytes.
func (s *scalar52) toBytes(out *[32]byte) {
	words := [4]uint64{
		s[0] | s[1]<<52,
		s[1]>>12 | s[2]<<40,
		s[2]>>24 | s[3]<<28,
		s[3]>>36 | s[4]<<16,
	}
	for i, w := range words {
		binary.LittleEndian.PutUint64(out[8*i:], w)
	}
}
