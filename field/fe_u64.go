// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !curve25519_fiat && !curve25519_u32

package field

import (
	"encoding/binary"
	"math/bits"
)

// The hand-written 64-bit backend. An element t represents the integer
//
//	t[0] + t[1]*2^51 + t[2]*2^102 + t[3]*2^153 + t[4]*2^204
//
// Between operations, limbs are kept within 52 bits, loosely reduced
// modulo p with the high carry folded back in multiplied by 19, since
// 2^255 = 19 (mod p).
type elementLimbs = [5]uint64

const maskLow51Bits uint64 = (1 << 51) - 1

// carryPropagate brings the limbs below 52 bits by applying the reduction
// identity (a * 2^255 + b = a * 19 + b) to the l4 carry.
func (v *Element) carryPropagate() *Element {
	v.limbs[1] += v.limbs[0] >> 51
	v.limbs[0] &= maskLow51Bits
	v.limbs[2] += v.limbs[1] >> 51
	v.limbs[1] &= maskLow51Bits
	v.limbs[3] += v.limbs[2] >> 51
	v.limbs[2] &= maskLow51Bits
	v.limbs[4] += v.limbs[3] >> 51
	v.limbs[3] &= maskLow51Bits
	v.limbs[0] += 19 * (v.limbs[4] >> 51)
	v.limbs[4] &= maskLow51Bits
	return v
}

// reduce reduces v modulo 2^255 - 19 and returns it.
func (v *Element) reduce() *Element {
	v.carryPropagate()

	// After the light reduction we now have a field element representation
	// v < 2^255 + 2^13 * 19, but need v < 2^255 - 19.

	// If v >= p, then v + 19 >= 2^255, which would overflow 2^255 - 1, and the
	// 255th carry bit would be set. Let c be that carry bit.
	c := (v.limbs[0] + 19) >> 51
	c = (v.limbs[1] + c) >> 51
	c = (v.limbs[2] + c) >> 51
	c = (v.limbs[3] + c) >> 51
	c = (v.limbs[4] + c) >> 51

	// If v < p and c is zero, this will be a no-op. Otherwise, it's
	// effectively applying the reduction identity to the carry.
	v.limbs[0] += 19 * c

	v.limbs[1] += v.limbs[0] >> 51
	v.limbs[0] &= maskLow51Bits
	v.limbs[2] += v.limbs[1] >> 51
	v.limbs[1] &= maskLow51Bits
	v.limbs[3] += v.limbs[2] >> 51
	v.limbs[2] &= maskLow51Bits
	v.limbs[4] += v.limbs[3] >> 51
	v.limbs[3] &= maskLow51Bits
	// no additional carry
	v.limbs[4] &= maskLow51Bits

	return v
}

func feAdd(v, a, b *Element) {
	v.limbs[0] = a.limbs[0] + b.limbs[0]
	v.limbs[1] = a.limbs[1] + b.limbs[1]
	v.limbs[2] = a.limbs[2] + b.limbs[2]
	v.limbs[3] = a.limbs[3] + b.limbs[3]
	v.limbs[4] = a.limbs[4] + b.limbs[4]
	v.carryPropagate()
}

func feSub(v, a, b *Element) {
	// We first add 2 * p, to guarantee the subtraction won't underflow, and
	// then subtract b (which can be up to 2^255 + 2^13 * 19).
	v.limbs[0] = (a.limbs[0] + 0xFFFFFFFFFFFDA) - b.limbs[0]
	v.limbs[1] = (a.limbs[1] + 0xFFFFFFFFFFFFE) - b.limbs[1]
	v.limbs[2] = (a.limbs[2] + 0xFFFFFFFFFFFFE) - b.limbs[2]
	v.limbs[3] = (a.limbs[3] + 0xFFFFFFFFFFFFE) - b.limbs[3]
	v.limbs[4] = (a.limbs[4] + 0xFFFFFFFFFFFFE) - b.limbs[4]
	v.carryPropagate()
}

func feNeg(v, a *Element) {
	feSub(v, feZero, a)
}

// uint128 holds a 128-bit number as two 64-bit halves.
type uint128 struct {
	lo, hi uint64
}

// mul64 returns a * b.
func mul64(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{lo, hi}
}

// addMul64 returns v + a * b.
func addMul64(v uint128, a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	lo, c := bits.Add64(lo, v.lo, 0)
	hi, _ = bits.Add64(hi, v.hi, c)
	return uint128{lo, hi}
}

// shiftRightBy51 returns a >> 51. a is assumed to be at most 115 bits.
func shiftRightBy51(a uint128) uint64 {
	return a.hi<<(64-51) | a.lo>>51
}

func feMul(v, a, b *Element) {
	a0 := a.limbs[0]
	a1 := a.limbs[1]
	a2 := a.limbs[2]
	a3 := a.limbs[3]
	a4 := a.limbs[4]

	b0 := b.limbs[0]
	b1 := b.limbs[1]
	b2 := b.limbs[2]
	b3 := b.limbs[3]
	b4 := b.limbs[4]

	// Limb products that land at or above 2^255 are multiplied by 19 and
	// folded back into the lower limbs, using 2^255 = 19 (mod p).
	a1_19 := a1 * 19
	a2_19 := a2 * 19
	a3_19 := a3 * 19
	a4_19 := a4 * 19

	// r0 = a0×b0 + 19×(a1×b4 + a2×b3 + a3×b2 + a4×b1)
	r0 := mul64(a0, b0)
	r0 = addMul64(r0, a1_19, b4)
	r0 = addMul64(r0, a2_19, b3)
	r0 = addMul64(r0, a3_19, b2)
	r0 = addMul64(r0, a4_19, b1)

	// r1 = a0×b1 + a1×b0 + 19×(a2×b4 + a3×b3 + a4×b2)
	r1 := mul64(a0, b1)
	r1 = addMul64(r1, a1, b0)
	r1 = addMul64(r1, a2_19, b4)
	r1 = addMul64(r1, a3_19, b3)
	r1 = addMul64(r1, a4_19, b2)

	// r2 = a0×b2 + a1×b1 + a2×b0 + 19×(a3×b4 + a4×b3)
	r2 := mul64(a0, b2)
	r2 = addMul64(r2, a1, b1)
	r2 = addMul64(r2, a2, b0)
	r2 = addMul64(r2, a3_19, b4)
	r2 = addMul64(r2, a4_19, b3)

	// r3 = a0×b3 + a1×b2 + a2×b1 + a3×b0 + 19×a4×b4
	r3 := mul64(a0, b3)
	r3 = addMul64(r3, a1, b2)
	r3 = addMul64(r3, a2, b1)
	r3 = addMul64(r3, a3, b0)
	r3 = addMul64(r3, a4_19, b4)

	// r4 = a0×b4 + a1×b3 + a2×b2 + a3×b1 + a4×b0
	r4 := mul64(a0, b4)
	r4 = addMul64(r4, a1, b3)
	r4 = addMul64(r4, a2, b2)
	r4 = addMul64(r4, a3, b1)
	r4 = addMul64(r4, a4, b0)

	// Now we have to fold the carries, which fit in at most 64 bits after
	// the 51-bit shift, back into the limbs below.
	c0 := shiftRightBy51(r0)
	c1 := shiftRightBy51(r1)
	c2 := shiftRightBy51(r2)
	c3 := shiftRightBy51(r3)
	c4 := shiftRightBy51(r4)

	rr0 := r0.lo&maskLow51Bits + c4*19
	rr1 := r1.lo&maskLow51Bits + c0
	rr2 := r2.lo&maskLow51Bits + c1
	rr3 := r3.lo&maskLow51Bits + c2
	rr4 := r4.lo&maskLow51Bits + c3

	v.limbs = elementLimbs{rr0, rr1, rr2, rr3, rr4}
	v.carryPropagate()
}

func feSquare(v, a *Element) {
	l0 := a.limbs[0]
	l1 := a.limbs[1]
	l2 := a.limbs[2]
	l3 := a.limbs[3]
	l4 := a.limbs[4]

	// Squaring needs only 15 mul instructions. Some inputs are multiplied
	// by 2 ahead of time, and cross products above 2^255 are folded back
	// in with the factor of 19.
	l0_2 := l0 * 2
	l1_2 := l1 * 2

	l1_38 := l1 * 38
	l2_38 := l2 * 38
	l3_38 := l3 * 38

	l3_19 := l3 * 19
	l4_19 := l4 * 19

	// r0 = l0×l0 + 38×(l1×l4 + l2×l3)
	r0 := mul64(l0, l0)
	r0 = addMul64(r0, l1_38, l4)
	r0 = addMul64(r0, l2_38, l3)

	// r1 = 2×l0×l1 + 38×l2×l4 + 19×l3×l3
	r1 := mul64(l0_2, l1)
	r1 = addMul64(r1, l2_38, l4)
	r1 = addMul64(r1, l3_19, l3)

	// r2 = 2×l0×l2 + l1×l1 + 38×l3×l4
	r2 := mul64(l0_2, l2)
	r2 = addMul64(r2, l1, l1)
	r2 = addMul64(r2, l3_38, l4)

	// r3 = 2×l0×l3 + 2×l1×l2 + 19×l4×l4
	r3 := mul64(l0_2, l3)
	r3 = addMul64(r3, l1_2, l2)
	r3 = addMul64(r3, l4_19, l4)

	// r4 = 2×l0×l4 + 2×l1×l3 + l2×l2
	r4 := mul64(l0_2, l4)
	r4 = addMul64(r4, l1_2, l3)
	r4 = addMul64(r4, l2, l2)

	c0 := shiftRightBy51(r0)
	c1 := shiftRightBy51(r1)
	c2 := shiftRightBy51(r2)
	c3 := shiftRightBy51(r3)
	c4 := shiftRightBy51(r4)

	rr0 := r0.lo&maskLow51Bits + c4*19
	rr1 := r1.lo&maskLow51Bits + c0
	rr2 := r2.lo&maskLow51Bits + c1
	rr3 := r3.lo&maskLow51Bits + c2
	rr4 := r4.lo&maskLow51Bits + c3

	v.limbs = elementLimbs{rr0, rr1, rr2, rr3, rr4}
	v.carryPropagate()
}

// mul51 returns lo + hi * 2^51 = a * b.
func mul51(a uint64, b uint32) (lo uint64, hi uint64) {
	mh, ml := bits.Mul64(a, uint64(b))
	lo = ml & maskLow51Bits
	hi = (mh << 13) | (ml >> 51)
	return
}

func feMult32(v, x *Element, y uint32) {
	x0lo, x0hi := mul51(x.limbs[0], y)
	x1lo, x1hi := mul51(x.limbs[1], y)
	x2lo, x2hi := mul51(x.limbs[2], y)
	x3lo, x3hi := mul51(x.limbs[3], y)
	x4lo, x4hi := mul51(x.limbs[4], y)
	v.limbs[0] = x0lo + 19*x4hi // carried over per the reduction identity
	v.limbs[1] = x1lo + x0hi
	v.limbs[2] = x2lo + x1hi
	v.limbs[3] = x3lo + x2hi
	v.limbs[4] = x4lo + x3hi
	// The hi portions are going to be only 32 bits, plus any previous excess,
	// so we can skip the carry propagation.
}

func feSetBytes(v *Element, x *[32]byte) {
	// Bits 0:51 (bytes 0:8, bits 0:64, shift 0, mask 51).
	v.limbs[0] = binary.LittleEndian.Uint64(x[0:8]) & maskLow51Bits
	// Bits 51:102 (bytes 6:14, bits 48:112, shift 3, mask 51).
	v.limbs[1] = (binary.LittleEndian.Uint64(x[6:14]) >> 3) & maskLow51Bits
	// Bits 102:153 (bytes 12:20, bits 96:160, shift 6, mask 51).
	v.limbs[2] = (binary.LittleEndian.Uint64(x[12:20]) >> 6) & maskLow51Bits
	// Bits 153:204 (bytes 19:27, bits 152:216, shift 1, mask 51).
	v.limbs[3] = (binary.LittleEndian.Uint64(x[19:27]) >> 1) & maskLow51Bits
	// Bits 204:255 (bytes 24:32, bits 192:256, shift 12, mask 51).
	v.limbs[4] = (binary.LittleEndian.Uint64(x[24:32]) >> 12) & maskLow51Bits
}

func feBytes(v *Element, out *[32]byte) {
	t := *v
	t.reduce()

	var buf [8]byte
	for i, l := range t.limbs {
		bitsOffset := i * 51
		binary.LittleEndian.PutUint64(buf[:], l<<uint(bitsOffset%8))
		for i, bb := range buf {
			off := bitsOffset/8 + i
			if off >= len(out) {
				break
			}
			out[off] |= bb
		}
	}
}

// mask64Bits returns 0xffffffff if cond is 1, and 0 otherwise.
func mask64Bits(cond int) uint64 { return ^(uint64(cond) - 1) }

func feSelect(v, a, b *Element, cond int) {
	m := mask64Bits(cond)
	v.limbs[0] = (m & a.limbs[0]) | (^m & b.limbs[0])
	v.limbs[1] = (m & a.limbs[1]) | (^m & b.limbs[1])
	v.limbs[2] = (m & a.limbs[2]) | (^m & b.limbs[2])
	v.limbs[3] = (m & a.limbs[3]) | (^m & b.limbs[3])
	v.limbs[4] = (m & a.limbs[4]) | (^m & b.limbs[4])
}

func feSwap(v, u *Element, cond int) {
	m := mask64Bits(cond)
	t := m & (v.limbs[0] ^ u.limbs[0])
	v.limbs[0] ^= t
	u.limbs[0] ^= t
	t = m & (v.limbs[1] ^ u.limbs[1])
	v.limbs[1] ^= t
	u.limbs[1] ^= t
	t = m & (v.limbs[2] ^ u.limbs[2])
	v.limbs[2] ^= t
	u.limbs[2] ^= t
	t = m & (v.limbs[3] ^ u.limbs[3])
	v.limbs[3] ^= t
	u.limbs[3] ^= t
	t = m & (v.limbs[4] ^ u.limbs[4])
	v.limbs[4] ^= t
	u.limbs[4] ^= t
}
