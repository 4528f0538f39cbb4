// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build curve25519_fiat && !curve25519_u32

package field

import (
	fiat "github.com/mit-plv/fiat-crypto/fiat-go/64/curve25519"
)

// The 64-bit formally derived backend, on the same five-limb radix 2^51
// representation as the hand-written one.
type elementLimbs = fiat.TightFieldElement

func feAdd(v, a, b *Element) {
	fiat.CarryAdd(&v.limbs, &a.limbs, &b.limbs)
}

func feSub(v, a, b *Element) {
	fiat.CarrySub(&v.limbs, &a.limbs, &b.limbs)
}

func feNeg(v, a *Element) {
	fiat.CarryOpp(&v.limbs, &a.limbs)
}

func feMul(v, a, b *Element) {
	fiat.CarryMul(&v.limbs, (*fiat.LooseFieldElement)(&a.limbs), (*fiat.LooseFieldElement)(&b.limbs))
}

func feSquare(v, a *Element) {
	fiat.CarrySquare(&v.limbs, (*fiat.LooseFieldElement)(&a.limbs))
}

func feMult32(v, x *Element, y uint32) {
	// fiat has CarryScmul121666 but nothing generic, do this the slow way
	// since the fast way + Carry violates the bounds specified for
	// LooseFieldElement.
	yLimbs := fiat.LooseFieldElement{uint64(y), 0, 0, 0, 0}
	fiat.CarryMul(&v.limbs, (*fiat.LooseFieldElement)(&x.limbs), &yLimbs)
}

func feSetBytes(v *Element, x *[32]byte) {
	fiat.FromBytes(&v.limbs, x)
}

func feBytes(v *Element, out *[32]byte) {
	fiat.ToBytes(out, &v.limbs)
}

// mask64Bits returns 0xffffffff if cond is 1, and 0 otherwise.
func mask64Bits(cond int) uint64 { return ^(uint64(cond) - 1) }

func feSelect(v, a, b *Element, cond int) {
	// fiat.Selectznz is unusable, due to the function prototype taking
	// an unexported type.
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
